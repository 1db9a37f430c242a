// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// discoverer performs the bounded, batched TTL sweep toward a target.
type discoverer struct {
	executor Executor
	opts     Options
	tracer   trace.Tracer
}

// discover sweeps TTLs in ascending batches until the destination is
// observed or MaxTTL is exhausted. Cancellation is checked between
// batches only; an in-flight batch always runs to completion within its
// probe timeouts. The returned hop list is sorted by TTL and truncated
// at the first occurrence of the destination address. If the
// destination never replies, the list is destination-less; repairing
// that is the caller's responsibility.
func (d *discoverer) discover(ctx context.Context, target string) ([]Hop, error) {
	var hops []Hop
	for ttl := 1; ttl <= d.opts.MaxTTL; ttl += d.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		last := min(ttl+d.opts.BatchSize-1, d.opts.MaxTTL)
		hops = append(hops, d.sweep(ctx, target, ttl, last)...)

		// Batch completion order is unspecified, normalize before
		// deciding whether the destination was observed.
		slices.SortFunc(hops, func(a, b Hop) int {
			return a.TTL - b.TTL
		})

		if reached(hops, target) {
			break
		}
	}

	return truncateAtDestination(hops, target), nil
}

// sweep probes the TTL range [from, to] concurrently and returns the
// hops that replied, in completion order. All-timeout TTLs produce no
// entry.
func (d *discoverer) sweep(ctx context.Context, target string, from, to int) []Hop {
	ch := make(chan Hop, to-from+1)
	var wg sync.WaitGroup

	for ttl := from; ttl <= to; ttl++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, span := d.tracer.Start(ctx, "pathprobe.hop", trace.WithAttributes(
				attribute.String("pathprobe.target.address", target),
				attribute.Int("pathprobe.target.ttl", ttl),
			))
			defer span.End()

			out, err := d.executor.Execute(ctx, target, ttl, d.opts.DiscoveryTimeout)
			if err != nil {
				// A probe process that cannot run counts as a timeout.
				span.RecordError(err)
				span.SetStatus(codes.Error, "Failed to execute hop probe")
				return
			}

			res := classify(out, target)
			if res.Timeout() {
				return
			}
			ch <- Hop{TTL: ttl, Addr: res.Addr}
		}()
	}

	wg.Wait()
	close(ch)

	hops := make([]Hop, 0, to-from+1)
	for hop := range ch {
		hops = append(hops, hop)
	}
	return hops
}

// reached reports whether the destination address appears in the hops.
func reached(hops []Hop, target string) bool {
	return slices.ContainsFunc(hops, func(h Hop) bool {
		return h.Addr == target
	})
}

// truncateAtDestination drops every hop past the first occurrence of
// the destination address. With load-balanced paths the destination may
// answer at more than one TTL; only the first occurrence survives.
func truncateAtDestination(hops []Hop, target string) []Hop {
	for i, h := range hops {
		if h.Addr == target {
			return hops[:i+1]
		}
	}
	return hops
}
