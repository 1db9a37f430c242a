// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/telekom/finch/internal/logger"
)

// Engine runs complete path diagnoses: a discovery sweep toward the
// target followed by cycle-based statistics aggregation over the
// discovered hops. An Engine is safe for concurrent use; every call to
// DiagnosePath owns its state.
type Engine struct {
	executor Executor
	opts     Options
	tracer   trace.Tracer
}

// NewEngine creates a path diagnosis engine on top of the given probe
// executor. Zero fields in opts fall back to the engine defaults.
func NewEngine(executor Executor, opts Options) *Engine {
	return &Engine{
		executor: executor,
		opts:     opts.withDefaults(),
		tracer:   otel.Tracer("pathprobe.engine"),
	}
}

// DiagnosePath discovers the path to target and aggregates per-hop
// statistics over the given number of measurement cycles. After every
// cycle the onCycle callback, if non-nil, receives an immutable
// snapshot of the statistics so far; the callback runs synchronously
// and must return before the next cycle starts. The returned reports
// equal the rows of the last snapshot.
func (e *Engine) DiagnosePath(ctx context.Context, target string, cycles int, onCycle func(Snapshot)) ([]HopReport, error) {
	log := logger.FromContext(ctx).With("target", target)
	ctx, span := e.tracer.Start(ctx, "pathprobe.diagnose", trace.WithAttributes(
		attribute.String("pathprobe.target.address", target),
		attribute.Int("pathprobe.cycles", cycles),
	))
	defer span.End()

	if cycles < 1 {
		err := fmt.Errorf("cycles must be at least 1, got %d", cycles)
		span.SetStatus(codes.Error, "Invalid cycle count")
		return nil, err
	}

	if err := e.executor.Available(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Probe executor unavailable")
		return nil, fmt.Errorf("%w: %w", ErrExecutorUnavailable, err)
	}

	d := &discoverer{executor: e.executor, opts: e.opts, tracer: e.tracer}
	hops, err := d.discover(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Path discovery aborted")
		return nil, err
	}
	hops = ensureDestination(hops, target)
	log.DebugContext(ctx, "Path discovered", "hops", len(hops))

	a := &aggregator{executor: e.executor, opts: e.opts}
	reports, err := a.aggregate(ctx, hops, cycles, onCycle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Statistics aggregation aborted")
		return nil, err
	}

	log.DebugContext(ctx, "Path diagnosis finished", "cycles", cycles)
	return reports, nil
}

// ensureDestination guarantees that the hop list ends with the
// destination. When discovery never saw a reply from the target, a
// synthetic live hop for it is appended one TTL past the last known
// hop, so aggregation still measures the destination directly.
func ensureDestination(hops []Hop, target string) []Hop {
	if n := len(hops); n > 0 && hops[n-1].Addr == target {
		return hops
	}

	ttl := 1
	if n := len(hops); n > 0 {
		ttl = hops[n-1].TTL + 1
	}
	return append(hops, Hop{TTL: ttl, Addr: target})
}
