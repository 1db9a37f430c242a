// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/config"
	"github.com/telekom/finch/pkg/finch"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run finch",
		Long:  "Finch will be started with the provided configuration",
		RunE:  run(),
	}
}

// run is the entry point to start the finch
func run() func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := logger.NewContextWithLogger(sigCtx)
		defer cancel()
		log := logger.FromContext(ctx)

		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		if err := cfg.Validate(ctx); err != nil {
			return fmt.Errorf("error while validating the config: %w", err)
		}

		f := finch.New(cfg)
		log.InfoContext(ctx, "Running finch")
		if err := f.Run(ctx); err != nil && !errors.Is(err, finch.ErrFinalShutdown) {
			return fmt.Errorf("error while running finch: %w", err)
		}
		return nil
	}
}
