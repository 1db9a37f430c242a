// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package finch

import (
	"context"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/checks"
	"github.com/telekom/finch/pkg/checks/runtime"
	"github.com/telekom/finch/pkg/db"
	"github.com/telekom/finch/pkg/factory"
	"github.com/telekom/finch/pkg/telemetry"
)

// ChecksController is responsible for managing the checks.
// It registers and unregisters checks based on the runtime
// configuration and writes their results to the database.
type ChecksController struct {
	db        db.DB
	telemetry telemetry.Provider
	checks    runtime.Checks
	cResult   chan checks.ResultDTO
	done      chan struct{}
	// shutOnce guards against a double shutdown, which can happen when
	// the controller's context is canceled while the finch shuts down
	shutOnce sync.Once
}

// NewChecksController creates a new ChecksController
func NewChecksController(dbase db.DB, t telemetry.Provider) *ChecksController {
	return &ChecksController{
		db:        dbase,
		telemetry: t,
		checks:    runtime.Checks{},
		cResult:   make(chan checks.ResultDTO, 1),
		done:      make(chan struct{}, 1),
	}
}

// Run runs the controller with handling results and context cancellation
func (cc *ChecksController) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()

	for {
		select {
		case result := <-cc.cResult:
			go cc.db.Save(result)
		case <-ctx.Done():
			cc.Shutdown(ctx)
			return ctx.Err()
		case <-cc.done:
			return nil
		}
	}
}

// Shutdown shuts down the controller and all registered checks
func (cc *ChecksController) Shutdown(ctx context.Context) {
	cc.shutOnce.Do(func() {
		log := logger.FromContext(ctx)
		log.Info("Shutting down checks controller")
		for c := range cc.checks.Iter() {
			cc.UnregisterCheck(ctx, c)
		}
		cc.done <- struct{}{}
		close(cc.done)
	})
}

// Reconcile reconciles the checks with the runtime configuration.
// Registered checks whose configuration changed are updated,
// checks that are no longer configured are unregistered,
// and new checks are registered.
func (cc *ChecksController) Reconcile(ctx context.Context, cfg runtime.Config) {
	log := logger.FromContext(ctx)

	newChecks, err := factory.NewChecksFromConfig(cfg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get checks from config", "error", err)
		return
	}

	// Update existing checks and unregister the dropped ones
	for c := range cc.checks.Iter() {
		conf := cfg.For(c.Name())
		if conf == nil {
			cc.UnregisterCheck(ctx, c)
			continue
		}

		err = c.UpdateConfig(conf)
		if err != nil {
			log.ErrorContext(ctx, "Failed to update check config", "check", c.Name(), "error", err)
		}
		delete(newChecks, c.Name())
	}

	// Register new checks
	for _, c := range newChecks {
		cc.RegisterCheck(ctx, c)
	}
}

// RegisterCheck registers a new check and starts running it
func (cc *ChecksController) RegisterCheck(ctx context.Context, check checks.Check) {
	log := logger.FromContext(ctx).With("check", check.Name())

	// Add prometheus collectors of check to registry
	for _, collector := range check.GetMetricCollectors() {
		if err := cc.telemetry.GetRegistry().Register(collector); err != nil {
			log.ErrorContext(ctx, "Could not add metrics collector to registry", "error", err)
		}
	}

	go func() {
		err := check.Run(ctx, cc.cResult)
		if err != nil {
			log.ErrorContext(ctx, "Failed to run check", "error", err)
		}
	}()

	cc.checks.Add(check)
}

// UnregisterCheck shuts down a check and unregisters it
func (cc *ChecksController) UnregisterCheck(ctx context.Context, check checks.Check) {
	log := logger.FromContext(ctx).With("check", check.Name())

	// Remove prometheus collectors of check from registry
	for _, metricsCollector := range check.GetMetricCollectors() {
		if !cc.telemetry.GetRegistry().Unregister(metricsCollector) {
			log.ErrorContext(ctx, "Could not remove metrics collector from registry")
		}
	}

	check.Shutdown()
	cc.checks.Delete(check)
}

var oapiBoilerplate = openapi3.T{
	OpenAPI: "3.0.0",
	Info: &openapi3.Info{
		Title:       "Finch Checks API",
		Description: "Serves check results collected by the finch",
		Contact: &openapi3.Contact{
			URL:   "https://github.com/telekom/finch",
			Email: "",
			Name:  "Deutsche Telekom IT GmbH",
		},
	},
	Paths:      &openapi3.Paths{},
	Components: &openapi3.Components{Schemas: make(openapi3.Schemas)},
}

// GenerateCheckSpecs generates the OpenAPI specifications
// for the results of all registered checks
func (cc *ChecksController) GenerateCheckSpecs(ctx context.Context) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := oapiBoilerplate
	for c := range cc.checks.Iter() {
		name := c.Name()
		ref, err := c.Schema()
		if err != nil {
			log.Error("Failed to get schema for check", "error", err, "check", name)
			return openapi3.T{}, ErrCreateOpenapiSchema{name: name, err: err}
		}

		routeDesc := fmt.Sprintf("Returns the latest result of the %s check", name)
		bodyDesc := fmt.Sprintf("Result of the %s check", name)
		doc.Paths.Set("/v1/checks/"+name, &openapi3.PathItem{
			Description: routeDesc,
			Get: &openapi3.Operation{
				Description: routeDesc,
				Tags:        []string{"Checks", name},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(200, &openapi3.ResponseRef{
						Value: openapi3.NewResponse().
							WithDescription(bodyDesc).
							WithJSONSchemaRef(ref),
					}),
				),
			},
		})
	}

	return doc, nil
}
