// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

const pingBinary = "ping"

// Ping probes targets through the system ping binary, so no raw socket
// privileges are needed. The zero value is ready to use.
type Ping struct {
	// lookPath resolves the binary, swapped in tests.
	lookPath func(file string) (string, error)
}

// NewPing creates a system ping based probe executor.
func NewPing() *Ping {
	return &Ping{lookPath: exec.LookPath}
}

// Execute fires one ping at the target and returns the raw combined
// output. A ttl greater than 0 constrains the probe's hop count. A
// non-zero exit status is not an error: ping exits non-zero on timeouts
// and TTL-exceeded replies, and the output still carries the reply
// text. Only a probe process that cannot run at all yields an error.
func (p *Ping) Execute(ctx context.Context, target string, ttl int, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout+500*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, pingBinary, pingArgs(target, ttl, timeout)...) //nolint:gosec // args are numeric flags plus the probe target
	// Force the C locale so the output stays parseable. Localized ping
	// variants are still tolerated in case the binary ignores it.
	cmd.Env = append(os.Environ(), "LANG=C", "LC_ALL=C")

	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", pingBinary, err)
	}
	return string(out), nil
}

// Available verifies that the ping binary is on the PATH. The probe
// itself is not exercised, targets may legitimately be unreachable.
func (p *Ping) Available(_ context.Context) error {
	lookPath := p.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(pingBinary); err != nil {
		return fmt.Errorf("%s binary not available: %w", pingBinary, err)
	}
	return nil
}

// pingArgs builds the single-probe argument list for the platform's
// ping flavor. A ttl of 0 omits the hop constraint.
func pingArgs(target string, ttl int, timeout time.Duration) []string {
	var args []string
	switch runtime.GOOS {
	case "windows":
		args = []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10)}
		if ttl > 0 {
			args = append(args, "-i", strconv.Itoa(ttl))
		}
	case "darwin":
		args = []string{"-c", "1", "-W", strconv.FormatInt(timeout.Milliseconds(), 10)}
		if ttl > 0 {
			args = append(args, "-m", strconv.Itoa(ttl))
		}
	default:
		args = []string{"-c", "1", "-W", strconv.Itoa(ceilSeconds(timeout)), "-n"}
		if ttl > 0 {
			args = append(args, "-t", strconv.Itoa(ttl))
		}
	}
	return append(args, target)
}

// ceilSeconds converts the timeout for ping flavors that only take
// whole seconds, rounding up so a sub-second timeout never becomes 0.
func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
