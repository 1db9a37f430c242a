// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/finch/internal/logger"
	"github.com/telekom/finch/internal/pathprobe"
	"github.com/telekom/finch/internal/probe"
	"github.com/telekom/finch/pkg/checks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ checks.Check = (*Pathprobe)(nil)

const CheckName = "pathprobe"

func NewCheck() checks.Check {
	c := &Pathprobe{
		CheckBase: checks.CheckBase{
			Mu:       sync.Mutex{},
			DoneChan: make(chan struct{}, 1),
		},
		config:   Config{},
		executor: probe.NewPing(),
		metrics:  newMetrics(),
	}
	c.tracer = otel.Tracer(c.Name())
	return c
}

type Pathprobe struct {
	checks.CheckBase
	config   Config
	metrics  metrics
	executor pathprobe.Executor
	tracer   trace.Tracer
}

type result map[string][]pathprobe.HopReport

// Run runs the check in a loop sending results to the provided channel
func (pp *Pathprobe) Run(ctx context.Context, cResult chan checks.ResultDTO) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	log.InfoContext(ctx, "Starting pathprobe check", "interval", pp.config.Interval.String())
	for {
		select {
		case <-ctx.Done():
			log.ErrorContext(ctx, "Context canceled", "error", ctx.Err())
			return ctx.Err()
		case <-pp.DoneChan:
			return nil
		case <-time.After(pp.config.Interval):
			res := pp.check(ctx)
			cResult <- checks.ResultDTO{
				Name: pp.Name(),
				Result: &checks.Result{
					Data:      res,
					Timestamp: time.Now(),
				},
			}
			log.DebugContext(ctx, "Successfully finished pathprobe check run")
		}
	}
}

// GetConfig returns the current configuration of the check
func (pp *Pathprobe) GetConfig() checks.Runtime {
	pp.Mu.Lock()
	defer pp.Mu.Unlock()
	return &pp.config
}

func (pp *Pathprobe) check(ctx context.Context) result {
	log := logger.FromContext(ctx)
	ctx, span := pp.tracer.Start(ctx, "pathprobe.check")
	defer span.End()

	pp.Mu.Lock()
	cfg := pp.config
	pp.Mu.Unlock()

	if len(cfg.Targets) == 0 {
		log.WarnContext(ctx, "No targets configured for pathprobe check")
		return result{}
	}

	engine := pathprobe.NewEngine(pp.executor, cfg.Options)

	res := result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, target := range cfg.Targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports, err := engine.DiagnosePath(ctx, target, cfg.Cycles, func(s pathprobe.Snapshot) {
				log.DebugContext(ctx, "Pathprobe cycle finished", "target", target, "cycle", s.Cycle, "cycles", s.Cycles)
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to diagnose path", "target", target, "error", err)
				span.SetStatus(codes.Error, "Failed to diagnose path")
				span.RecordError(err)
				// The target still shows up in the result with an empty
				// path to indicate the diagnosis was attempted.
				reports = []pathprobe.HopReport{}
			}

			pp.metrics.Set(target, reports)
			mu.Lock()
			res[target] = reports
			mu.Unlock()
		}()
	}
	wg.Wait()

	return res
}

// Shutdown is called once when the check is unregistered or finch shuts down
func (pp *Pathprobe) Shutdown() {
	pp.DoneChan <- struct{}{}
	close(pp.DoneChan)
}

// UpdateConfig is called once when the check is registered
// This is also called while the check is running, if the config is updated
// This should return an error if the config is invalid
func (pp *Pathprobe) UpdateConfig(cfg checks.Runtime) error {
	if c, ok := cfg.(*Config); ok {
		pp.Mu.Lock()
		defer pp.Mu.Unlock()

		for _, target := range pp.config.Targets {
			if !slices.Contains(c.Targets, target) {
				err := pp.metrics.Remove(target)
				if err != nil {
					return err
				}
			}
		}

		pp.config = *c
		return nil
	}

	return checks.ErrConfigMismatch{
		Expected: CheckName,
		Current:  cfg.For(),
	}
}

// Schema returns an openapi3.SchemaRef of the result type returned by the check
func (pp *Pathprobe) Schema() (*openapi3.SchemaRef, error) {
	return checks.OpenapiFromPerfData(result{})
}

// GetMetricCollectors allows the check to provide prometheus metric collectors
func (pp *Pathprobe) GetMetricCollectors() []prometheus.Collector {
	return pp.metrics.List()
}

// Name returns the name of the check
func (pp *Pathprobe) Name() string {
	return CheckName
}

// RemoveLabelledMetrics removes the metrics which have the passed
// target as a label
func (pp *Pathprobe) RemoveLabelledMetrics(target string) error {
	return pp.metrics.Remove(target)
}
