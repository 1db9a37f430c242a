// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/telekom/finch/internal/helper"
)

// maxPublicIPBody caps the response size, the endpoint returns a bare
// address.
const maxPublicIPBody = 256

// fetchPublicIP discovers the public IP through the configured
// plain-text endpoint, retrying transient failures.
func (n *Netinfo) fetchPublicIP(ctx context.Context, cfg Config) (string, error) {
	var ip string
	getIP := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.PublicIPURL, http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := n.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to query %q: %w", cfg.PublicIPURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d from %q", resp.StatusCode, cfg.PublicIPURL)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxPublicIPBody))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		addr := strings.TrimSpace(string(body))
		if net.ParseIP(addr) == nil {
			return fmt.Errorf("response %q is not an ip address", addr)
		}

		ip = addr
		return nil
	}

	if err := helper.Retry(getIP, cfg.Retry)(ctx); err != nil {
		return "", err
	}
	return ip, nil
}
