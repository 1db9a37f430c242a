// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_WithDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		got := Options{}.withDefaults()
		assert.Equal(t, Options{
			MaxTTL:           defaultMaxTTL,
			BatchSize:        defaultBatchSize,
			DiscoveryTimeout: defaultDiscoveryTimeout,
			ProbeTimeout:     defaultProbeTimeout,
			CycleDelay:       defaultCycleDelay,
		}, got)
	})

	t.Run("set values survive", func(t *testing.T) {
		opts := Options{
			MaxTTL:           5,
			BatchSize:        2,
			DiscoveryTimeout: 100 * time.Millisecond,
			ProbeTimeout:     200 * time.Millisecond,
			CycleDelay:       time.Millisecond,
		}
		assert.Equal(t, opts, opts.withDefaults())
	})
}

func TestHopStats(t *testing.T) {
	t.Run("no samples", func(t *testing.T) {
		s := newHopStats(Hop{TTL: 1, Addr: "10.0.0.1"})
		s.sent = 3

		got := s.report()
		assert.Equal(t, 100.0, got.Loss)
		assert.Equal(t, 0.0, got.Avg)
		assert.Equal(t, 0.0, got.Best)
		assert.Equal(t, 0.0, got.Worst)
		assert.Equal(t, 0.0, got.Stdev)
	})

	t.Run("rounding to one decimal", func(t *testing.T) {
		s := newHopStats(Hop{TTL: 1, Addr: "10.0.0.1"})
		s.sent = 3
		s.record(10.04)
		s.record(10.06)
		s.record(10.11)

		got := s.report()
		assert.Equal(t, 10.1, got.Avg)
		assert.Equal(t, 10.0, got.Best)
		assert.Equal(t, 10.1, got.Worst)
		assert.Equal(t, 0.0, got.Stdev)
	})

	t.Run("dead slot ignores sent counter", func(t *testing.T) {
		s := newHopStats(Hop{TTL: 4})
		assert.True(t, s.dead())
		assert.Equal(t, 100.0, s.loss())
	})
}

func TestHop_String(t *testing.T) {
	assert.Equal(t, "1   10.0.0.1", Hop{TTL: 1, Addr: "10.0.0.1"}.String())
	assert.Equal(t, "12  *", Hop{TTL: 12}.String())
}
