// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/finch/internal/pathprobe"
	"github.com/telekom/finch/pkg/checks"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name string
		c    *Pathprobe
		want result
	}{
		{
			name: "success two hop path",
			c: newPathprobe(t, Config{
				Targets:  []string{"192.0.2.50"},
				Interval: time.Second,
				Cycles:   2,
				Options:  pathprobe.Options{CycleDelay: time.Millisecond},
			}),
			want: result{
				"192.0.2.50": {
					{TTL: 1, Addr: "10.0.0.1", Loss: 0, Avg: 5, Best: 5, Worst: 5, Stdev: 0, Sent: 2},
					{TTL: 2, Addr: "192.0.2.50", Loss: 0, Avg: 5, Best: 5, Worst: 5, Stdev: 0, Sent: 2},
				},
			},
		},
		{
			name: "no targets configured",
			c:    newPathprobe(t, Config{Interval: time.Second, Cycles: 1}),
			want: result{},
		},
		{
			name: "unavailable executor reports empty path",
			c: func() *Pathprobe {
				c := newPathprobe(t, Config{
					Targets:  []string{"192.0.2.50"},
					Interval: time.Second,
					Cycles:   1,
				})
				c.executor = &pathprobe.ExecutorMock{
					AvailableFunc: func(_ context.Context) error {
						return fmt.Errorf("ping binary not available")
					},
				}
				return c
			}(),
			want: result{
				"192.0.2.50": {},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := c.c.check(t.Context())

			if !cmp.Equal(res, c.want) {
				diff := cmp.Diff(res, c.want)
				t.Errorf("unexpected result: +want -got\n%s", diff)
			}
		})
	}
}

func TestPathprobe_UpdateConfig(t *testing.T) {
	c := newPathprobe(t, Config{Targets: []string{"192.0.2.50"}, Interval: time.Second, Cycles: 1})

	t.Run("mismatched config type", func(t *testing.T) {
		err := c.UpdateConfig(&mismatchedConfig{})
		var mismatch checks.ErrConfigMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, CheckName, mismatch.Expected)
	})

	t.Run("valid config is applied", func(t *testing.T) {
		want := Config{Targets: []string{"203.0.113.9"}, Interval: time.Minute, Cycles: 4}
		// Populate metrics for the old target so dropping it succeeds.
		c.metrics.Set("192.0.2.50", []pathprobe.HopReport{{TTL: 1, Addr: "10.0.0.1"}})

		require.NoError(t, c.UpdateConfig(&want))
		assert.Equal(t, &want, c.GetConfig())
	})
}

func TestPathprobe_Run(t *testing.T) {
	c := newPathprobe(t, Config{
		Targets:  []string{"192.0.2.50"},
		Interval: 10 * time.Millisecond,
		Cycles:   1,
		Options:  pathprobe.Options{CycleDelay: time.Millisecond},
	})

	cResult := make(chan checks.ResultDTO, 1)
	go func() {
		_ = c.Run(t.Context(), cResult)
	}()
	t.Cleanup(c.Shutdown)

	select {
	case dto := <-cResult:
		assert.Equal(t, CheckName, dto.Name)
		require.NotNil(t, dto.Result)
		res, ok := dto.Result.Data.(result)
		require.True(t, ok, "result data should be a pathprobe result")
		assert.Contains(t, res, "192.0.2.50")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for check result")
	}
}

func TestPathprobe_Schema(t *testing.T) {
	c := NewCheck()
	schema, err := c.Schema()
	require.NoError(t, err)
	assert.NotNil(t, schema)
}

func TestPathprobe_Name(t *testing.T) {
	assert.Equal(t, "pathprobe", NewCheck().Name())
}

// newPathprobe builds a check whose executor answers from a static two
// hop path ending at 192.0.2.50, with 5 ms direct probe replies.
func newPathprobe(t testing.TB, cfg Config) *Pathprobe {
	t.Helper()
	c, ok := NewCheck().(*Pathprobe)
	require.True(t, ok, "NewCheck should return a Pathprobe check")
	c.config = cfg
	c.executor = &pathprobe.ExecutorMock{
		AvailableFunc: func(_ context.Context) error { return nil },
		ExecuteFunc: func(_ context.Context, target string, ttl int, _ time.Duration) (string, error) {
			switch ttl {
			case 0:
				return fmt.Sprintf("64 bytes from %s: icmp_seq=1 ttl=60 time=5.0 ms\n", target), nil
			case 1:
				return "From 10.0.0.1: icmp_seq=1 Time to live exceeded\n", nil
			case 2:
				return "64 bytes from 192.0.2.50: icmp_seq=1 ttl=60 time=5.0 ms\n", nil
			default:
				return "Request timed out.\n", nil
			}
		},
	}
	return c
}

// mismatchedConfig implements checks.Runtime for a different check.
type mismatchedConfig struct{}

func (m *mismatchedConfig) For() string     { return "bogus" }
func (m *mismatchedConfig) Validate() error { return nil }
