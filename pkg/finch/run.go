// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package finch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/api"
	"github.com/telekom/finch/pkg/checks/runtime"
	"github.com/telekom/finch/pkg/config"
	"github.com/telekom/finch/pkg/db"
	"github.com/telekom/finch/pkg/telemetry"
)

const shutdownTimeout = time.Second * 90

// Finch is the main struct of the finch application
type Finch struct {
	// config is the startup configuration of the finch
	config *config.Config
	// db is the database used to store the check results
	db db.DB
	// api is the finch's API
	api api.API
	// loader is used to load the runtime configuration
	loader config.Loader
	// telemetry is used to collect metrics and traces
	telemetry telemetry.Provider
	// controller is used to manage the checks
	controller *ChecksController
	// cRuntime is used to signal that the runtime configuration has changed
	cRuntime chan runtime.Config
	// cErr is used to handle non-recoverable errors of the finch components
	cErr chan error
	// cDone is used to signal that the finch was shut down because of an error
	cDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// New creates a new finch from a given configfile
func New(cfg *config.Config) *Finch {
	t := telemetry.New(cfg.Telemetry)
	dbase := db.NewInMemory()

	finch := &Finch{
		config:     cfg,
		db:         dbase,
		api:        api.New(cfg.Api),
		telemetry:  t,
		controller: NewChecksController(dbase, t),
		cRuntime:   make(chan runtime.Config, 1),
		cErr:       make(chan error, 1),
		cDone:      make(chan struct{}, 1),
		shutOnce:   sync.Once{},
	}

	finch.loader = config.NewLoader(cfg, finch.cRuntime)

	return finch
}

// Run starts the finch
func (f *Finch) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	err := f.telemetry.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	err = telemetry.RegisterInstanceInfo(f.telemetry.GetRegistry(),
		f.config.FinchName,
		f.config.Metadata.Team.Name,
		f.config.Metadata.Team.Email,
		f.config.Metadata.Platform,
	)
	if err != nil {
		return fmt.Errorf("failed to register instance info: %w", err)
	}

	go func() {
		f.cErr <- f.loader.Run(ctx)
	}()

	go func() {
		f.cErr <- f.startupAPI(ctx)
	}()

	go func() {
		f.cErr <- f.controller.Run(ctx)
	}()

	for {
		select {
		case cfg := <-f.cRuntime:
			f.controller.Reconcile(ctx, cfg)
		case <-ctx.Done():
			f.shutdown(ctx)
		case err := <-f.cErr:
			if err != nil {
				log.Error("Non-recoverable error in finch component", "error", err)
				f.shutdown(ctx)
			}
		case <-f.cDone:
			log.InfoContext(ctx, "Finch was shut down")
			return ErrFinalShutdown
		}
	}
}

// shutdown shuts down the finch and all managed components gracefully.
// It returns an error if one is present in the context or if any of the
// components fail to shut down.
func (f *Finch) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	f.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down finch")
		var sErrs ErrShutdown
		sErrs.errAPI = f.api.Shutdown(ctx)
		sErrs.errTelemetry = f.telemetry.Shutdown(ctx)
		f.loader.Shutdown(ctx)
		f.controller.Shutdown(ctx)

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		}

		// Signal that shutdown is complete
		f.cDone <- struct{}{}
	})
}
