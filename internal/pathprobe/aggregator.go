// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"sync"
	"time"
)

// aggregator re-probes every hop of a frozen hop list across
// measurement cycles, maintaining per-hop running statistics.
type aggregator struct {
	executor Executor
	opts     Options
}

// aggregate runs the given number of strictly sequential measurement
// cycles over the hop list and returns the final per-hop statistics in
// hop order. After every cycle a snapshot is built and onCycle is
// invoked synchronously; the next cycle does not start until the
// callback returns. Cancellation is checked between cycles only.
func (a *aggregator) aggregate(ctx context.Context, hops []Hop, cycles int, onCycle func(Snapshot)) ([]HopReport, error) {
	stats := make([]*hopStats, len(hops))
	for i, h := range hops {
		stats[i] = newHopStats(h)
	}

	for cycle := 1; cycle <= cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a.runCycle(ctx, stats)

		if onCycle != nil {
			onCycle(snapshot(stats, cycle, cycles))
		}

		if cycle == cycles {
			break
		}

		// Pause between cycles to avoid burst bias.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.opts.CycleDelay):
		}
	}

	reports := make([]HopReport, len(stats))
	for i, s := range stats {
		reports[i] = s.report()
	}
	return reports, nil
}

// runCycle issues one direct probe per live hop and waits for the full
// cycle to resolve. Each goroutine is the sole writer of its hop's
// statistics; cross-hop reads happen only after the join.
func (a *aggregator) runCycle(ctx context.Context, stats []*hopStats) {
	var wg sync.WaitGroup
	for _, s := range stats {
		if s.dead() {
			// Fixed at 100% loss without consuming an attempt.
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sent++

			out, err := a.executor.Execute(ctx, s.hop.Addr, 0, a.opts.ProbeTimeout)
			if err != nil {
				// A probe that fails to start is a lost probe, never an error.
				return
			}

			if res := classifyDirect(out); res.HasRTT {
				s.record(res.RTT)
			}
		}()
	}
	wg.Wait()
}

// snapshot materializes an immutable copy of all hop statistics.
func snapshot(stats []*hopStats, cycle, cycles int) Snapshot {
	rows := make([]HopReport, len(stats))
	for i, s := range stats {
		rows[i] = s.report()
	}
	return Snapshot{Cycle: cycle, Cycles: cycles, Rows: rows}
}
