// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/telekom/finch/internal/helper"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/pkg/checks/runtime"
	"gopkg.in/yaml.v3"
)

var _ Loader = (*HttpLoader)(nil)

type HttpLoader struct {
	config   LoaderConfig
	cRuntime chan<- runtime.Config
	client   *http.Client
	done     chan struct{}
}

func NewHttpLoader(cfg *Config, cRuntime chan<- runtime.Config) *HttpLoader {
	return &HttpLoader{
		config:   cfg.Loader,
		cRuntime: cRuntime,
		client: &http.Client{
			Timeout: cfg.Loader.Http.Timeout,
		},
		done: make(chan struct{}, 1),
	}
}

// Run gets the runtime configuration from the remote endpoint.
// The config will be loaded periodically defined by the loader interval configuration.
// Failed attempts are retried with the configured retry mechanism.
// If the interval is 0, the configuration is only fetched once and the loader is disabled.
func (h *HttpLoader) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).With("url", h.config.Http.Url)

	// Get the runtime configuration once on startup
	cfg, err := h.fetchRuntimeConfig(ctx)
	if err != nil {
		log.Warn("Could not get remote runtime configuration", "error", err)
		err = fmt.Errorf("could not get remote runtime configuration: %w", err)
	}
	h.cRuntime <- cfg

	if h.config.Interval == 0 {
		log.Info("HTTP Loader disabled")
		return err
	}

	tick := time.NewTicker(h.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-h.done:
			log.Info("HTTP Loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			runtimeCfg, err := h.fetchRuntimeConfig(ctx)
			if err != nil {
				log.Warn("Could not get remote runtime configuration", "error", err)
				tick.Reset(h.config.Interval)
				continue
			}

			log.Info("Successfully got remote runtime configuration")
			h.cRuntime <- runtimeCfg
			tick.Reset(h.config.Interval)
		}
	}
}

// fetchRuntimeConfig fetches the runtime configuration from the remote
// endpoint, retrying transient failures.
func (h *HttpLoader) fetchRuntimeConfig(ctx context.Context) (runtime.Config, error) {
	var cfg runtime.Config
	getCfg := func(ctx context.Context) error {
		c, err := h.getRuntimeConfig(ctx)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	}

	if err := helper.Retry(getCfg, h.config.Http.RetryCfg)(ctx); err != nil {
		return runtime.Config{}, err
	}
	return cfg, nil
}

// getRuntimeConfig gets the remote runtime configuration from the configured endpoint.
func (h *HttpLoader) getRuntimeConfig(ctx context.Context) (cfg runtime.Config, err error) {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.config.Http.Url, http.NoBody)
	if err != nil {
		log.Error("Failed to create request", "error", err)
		return cfg, fmt.Errorf("failed to create request: %w", err)
	}

	if h.config.Http.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", h.config.Http.Token))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Error("Failed to fetch config", "error", err)
		return cfg, fmt.Errorf("failed to fetch config: %w", err)
	}
	defer func() {
		cerr := resp.Body.Close()
		if cerr != nil {
			log.Error("Failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		log.Error("Unexpected status fetching config", "status", resp.StatusCode)
		return cfg, fmt.Errorf("unexpected status %d fetching config", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", "error", err)
		return cfg, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		log.Error("Failed to parse config", "error", err)
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func (h *HttpLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case h.done <- struct{}{}:
		log.Debug("Sending signal to shut down http loader")
	default:
	}
}
