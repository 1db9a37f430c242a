// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

const testTarget = "192.0.2.50"

// hopReply fakes a TTL-exceeded reply from an intermediate router.
func hopReply(addr string) string {
	return fmt.Sprintf("From %s: icmp_seq=1 Time to live exceeded\n", addr)
}

// destReply fakes an echo reply from the destination itself.
func destReply(rtt float64) string {
	return fmt.Sprintf("64 bytes from %s: icmp_seq=1 ttl=56 time=%.1f ms\n", testTarget, rtt)
}

// pathExecutor mocks an executor whose TTL-limited probes answer from a
// fixed path. An empty entry means the hop stays silent. Direct probes
// always succeed with a 5 ms RTT.
func pathExecutor(path map[int]string) *ExecutorMock {
	return &ExecutorMock{
		AvailableFunc: func(_ context.Context) error { return nil },
		ExecuteFunc: func(_ context.Context, _ string, ttl int, _ time.Duration) (string, error) {
			if ttl == 0 {
				return destReply(5), nil
			}
			addr, ok := path[ttl]
			if !ok || addr == "" {
				return "Request timed out.\n", nil
			}
			if addr == testTarget {
				return destReply(5), nil
			}
			return hopReply(addr), nil
		},
	}
}

func TestDiscoverer_Discover(t *testing.T) {
	tests := []struct {
		name string
		path map[int]string
		want []Hop
	}{
		{
			name: "short path within one batch",
			path: map[int]string{1: "10.0.0.1", 2: "10.0.0.2", 3: testTarget},
			want: []Hop{
				{TTL: 1, Addr: "10.0.0.1"},
				{TTL: 2, Addr: "10.0.0.2"},
				{TTL: 3, Addr: testTarget},
			},
		},
		{
			name: "silent hop leaves a gap",
			path: map[int]string{1: "10.0.0.1", 3: testTarget},
			want: []Hop{
				{TTL: 1, Addr: "10.0.0.1"},
				{TTL: 3, Addr: testTarget},
			},
		},
		{
			name: "path spanning two batches",
			path: map[int]string{
				1: "10.0.0.1", 2: "10.0.0.2", 3: "10.0.0.3", 4: "10.0.0.4", 5: "10.0.0.5",
				6: "10.0.0.6", 7: "10.0.0.7", 8: "10.0.0.8", 9: "10.0.0.9", 10: "10.0.0.10",
				11: "10.0.0.11", 12: testTarget,
			},
			want: []Hop{
				{TTL: 1, Addr: "10.0.0.1"}, {TTL: 2, Addr: "10.0.0.2"}, {TTL: 3, Addr: "10.0.0.3"},
				{TTL: 4, Addr: "10.0.0.4"}, {TTL: 5, Addr: "10.0.0.5"}, {TTL: 6, Addr: "10.0.0.6"},
				{TTL: 7, Addr: "10.0.0.7"}, {TTL: 8, Addr: "10.0.0.8"}, {TTL: 9, Addr: "10.0.0.9"},
				{TTL: 10, Addr: "10.0.0.10"}, {TTL: 11, Addr: "10.0.0.11"}, {TTL: 12, Addr: testTarget},
			},
		},
		{
			name: "destination seen at multiple ttls is truncated",
			path: map[int]string{1: "10.0.0.1", 2: testTarget, 3: testTarget},
			want: []Hop{
				{TTL: 1, Addr: "10.0.0.1"},
				{TTL: 2, Addr: testTarget},
			},
		},
		{
			name: "unreachable destination",
			path: map[int]string{1: "10.0.0.1", 2: "10.0.0.2"},
			want: []Hop{
				{TTL: 1, Addr: "10.0.0.1"},
				{TTL: 2, Addr: "10.0.0.2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := pathExecutor(tt.path)
			d := &discoverer{executor: exec, opts: Options{}.withDefaults(), tracer: otel.Tracer("test")}

			hops, err := d.discover(t.Context(), testTarget)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hops)
		})
	}
}

func TestDiscoverer_Discover_StopsAtFirstDestinationBatch(t *testing.T) {
	exec := pathExecutor(map[int]string{1: "10.0.0.1", 2: testTarget})
	d := &discoverer{executor: exec, opts: Options{}.withDefaults(), tracer: otel.Tracer("test")}

	_, err := d.discover(t.Context(), testTarget)
	require.NoError(t, err)

	// The second batch must never run once the destination answered.
	assert.Len(t, exec.ExecuteCalls(), defaultBatchSize)
}

func TestDiscoverer_Discover_ExecutorErrorIsTimeout(t *testing.T) {
	exec := &ExecutorMock{
		ExecuteFunc: func(_ context.Context, _ string, ttl int, _ time.Duration) (string, error) {
			if ttl == 1 {
				return hopReply("10.0.0.1"), nil
			}
			if ttl == 3 {
				return destReply(5), nil
			}
			return "", errors.New("fork/exec: resource temporarily unavailable")
		},
	}
	d := &discoverer{executor: exec, opts: Options{}.withDefaults(), tracer: otel.Tracer("test")}

	hops, err := d.discover(t.Context(), testTarget)
	require.NoError(t, err)
	assert.Equal(t, []Hop{{TTL: 1, Addr: "10.0.0.1"}, {TTL: 3, Addr: testTarget}}, hops)
}

func TestDiscoverer_Discover_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	exec := pathExecutor(map[int]string{1: testTarget})
	d := &discoverer{executor: exec, opts: Options{}.withDefaults(), tracer: otel.Tracer("test")}

	_, err := d.discover(ctx, testTarget)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, exec.ExecuteCalls())
}

func TestTruncateAtDestination(t *testing.T) {
	hops := []Hop{
		{TTL: 1, Addr: "10.0.0.1"},
		{TTL: 2, Addr: testTarget},
		{TTL: 3, Addr: testTarget},
	}
	assert.Equal(t, hops[:2], truncateAtDestination(hops, testTarget))
	assert.Equal(t, hops, truncateAtDestination(hops, "203.0.113.9"))
	assert.Empty(t, truncateAtDestination(nil, testTarget))
}
