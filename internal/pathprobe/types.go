// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Executor runs a single external probe against a target.
// Implementations invoke a platform ping primitive and return its raw
// output; flag selection and locale forcing are entirely their concern.
//
//go:generate go tool moq -out executor_moq.go . Executor
type Executor interface {
	// Execute fires one probe at the target and returns the raw text
	// output. A ttl of 0 probes the target directly without
	// constraining the hop count. An error means the probe process
	// could not be run at all.
	Execute(ctx context.Context, target string, ttl int, timeout time.Duration) (string, error)
	// Available reports whether the executor is able to run probes.
	Available(ctx context.Context) error
}

// Default engine parameters.
const (
	defaultMaxTTL           = 30
	defaultBatchSize        = 10
	defaultDiscoveryTimeout = time.Second
	defaultProbeTimeout     = 2 * time.Second
	defaultCycleDelay       = time.Second
)

// Options contains the optional configuration for the path probe engine.
type Options struct {
	// MaxTTL is the highest TTL the discovery sweep will try.
	MaxTTL int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// BatchSize is the number of TTLs probed concurrently per discovery batch.
	BatchSize int `json:"batchSize" yaml:"batchSize" mapstructure:"batchSize"`
	// DiscoveryTimeout is the timeout for each TTL-limited discovery probe.
	DiscoveryTimeout time.Duration `json:"discoveryTimeout" yaml:"discoveryTimeout" mapstructure:"discoveryTimeout"`
	// ProbeTimeout is the timeout for each direct probe during aggregation.
	ProbeTimeout time.Duration `json:"probeTimeout" yaml:"probeTimeout" mapstructure:"probeTimeout"`
	// CycleDelay is the pause between measurement cycles.
	CycleDelay time.Duration `json:"cycleDelay" yaml:"cycleDelay" mapstructure:"cycleDelay"`
}

// withDefaults fills unset options with the engine defaults.
func (o Options) withDefaults() Options {
	if o.MaxTTL <= 0 {
		o.MaxTTL = defaultMaxTTL
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.DiscoveryTimeout <= 0 {
		o.DiscoveryTimeout = defaultDiscoveryTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = defaultProbeTimeout
	}
	if o.CycleDelay <= 0 {
		o.CycleDelay = defaultCycleDelay
	}
	return o
}

// ProbeResult is the classification of a single probe's raw output.
type ProbeResult struct {
	// Addr is the responding address. Empty on timeout.
	Addr string
	// Destination is true if the reply came from the target itself.
	Destination bool
	// RTT is the round-trip time in milliseconds. Only valid if HasRTT
	// is set; intermediate TTL-exceeded replies carry no usable RTT.
	RTT float64
	// HasRTT indicates whether RTT holds a measured value.
	HasRTT bool
}

// Timeout reports whether the probe received no qualifying reply.
func (r ProbeResult) Timeout() bool {
	return r.Addr == ""
}

// Hop is one node on the path, identified by the TTL that provoked its
// reply. Hops are created once during discovery and never mutated.
type Hop struct {
	TTL  int    `json:"ttl" yaml:"ttl"`
	Addr string `json:"addr" yaml:"addr"`
}

func (h Hop) String() string {
	addr := h.Addr
	if addr == "" {
		addr = "*"
	}
	return fmt.Sprintf("%-2d  %s", h.TTL, addr)
}

// HopReport is one row of aggregated statistics for a hop. All
// millisecond values are rounded to one decimal.
type HopReport struct {
	TTL   int     `json:"ttl" yaml:"ttl"`
	Addr  string  `json:"addr" yaml:"addr"`
	Loss  float64 `json:"loss" yaml:"loss"`
	Avg   float64 `json:"avg" yaml:"avg"`
	Best  float64 `json:"best" yaml:"best"`
	Worst float64 `json:"worst" yaml:"worst"`
	Stdev float64 `json:"stdev" yaml:"stdev"`
	Sent  int     `json:"sent" yaml:"sent"`
}

// Snapshot is an immutable, per-cycle copy of all hop statistics. It is
// handed to the progress callback and not retained by the engine.
type Snapshot struct {
	// Cycle is the 1-based index of the cycle this snapshot reflects.
	Cycle int `json:"cycle" yaml:"cycle"`
	// Cycles is the total number of cycles of the run.
	Cycles int `json:"cycles" yaml:"cycles"`
	// Rows holds one report per hop, in hop order.
	Rows []HopReport `json:"rows" yaml:"rows"`
}

// hopStats holds the running statistics of a single hop. Each instance
// is written by exactly one probe task per cycle and read only after
// the full-cycle join, so no locking is needed.
type hopStats struct {
	hop      Hop
	sent     int
	received int
	rtts     []float64
	best     float64
	worst    float64
	sum      float64
}

func newHopStats(h Hop) *hopStats {
	return &hopStats{
		hop:  h,
		best: math.Inf(1),
	}
}

// dead reports whether the hop slot has no address. Dead slots never
// issue probes and are fixed at 100% loss.
func (s *hopStats) dead() bool {
	return s.hop.Addr == ""
}

// record adds one successful RTT sample.
func (s *hopStats) record(rtt float64) {
	s.received++
	s.rtts = append(s.rtts, rtt)
	s.sum += rtt
	if rtt < s.best {
		s.best = rtt
	}
	if rtt > s.worst {
		s.worst = rtt
	}
}

// loss returns the packet loss in percent.
func (s *hopStats) loss() float64 {
	if s.dead() {
		return 100
	}
	if s.sent == 0 {
		return 0
	}
	return 100 * float64(s.sent-s.received) / float64(s.sent)
}

// avg returns the mean RTT, or 0 if no sample was received.
func (s *hopStats) avg() float64 {
	if s.received == 0 {
		return 0
	}
	return s.sum / float64(s.received)
}

// stdev returns the population standard deviation of the collected
// RTTs, or 0 for fewer than 2 samples.
func (s *hopStats) stdev() float64 {
	if len(s.rtts) < 2 {
		return 0
	}
	mean := s.avg()
	var sq float64
	for _, rtt := range s.rtts {
		d := rtt - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(s.rtts)))
}

// report materializes the current statistics into an immutable row.
// The unset best sentinel is reported as 0, never as infinity.
func (s *hopStats) report() HopReport {
	best := s.best
	if math.IsInf(best, 1) {
		best = 0
	}
	return HopReport{
		TTL:   s.hop.TTL,
		Addr:  s.hop.Addr,
		Loss:  round1(s.loss()),
		Avg:   round1(s.avg()),
		Best:  round1(best),
		Worst: round1(s.worst),
		Stdev: round1(s.stdev()),
		Sent:  s.sent,
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
