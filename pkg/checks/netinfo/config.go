// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/telekom/finch/internal/helper"
	"github.com/telekom/finch/pkg/checks"
)

const (
	minInterval = 100 * time.Millisecond
	minTimeout  = 200 * time.Millisecond
)

// defaultPublicIPURL answers a plain-text public IP lookup.
const defaultPublicIPURL = "https://api.ipify.org"

// Config defines the configuration parameters for the netinfo check
type Config struct {
	// Hosts is a list of DNS names to resolve.
	Hosts []string `json:"hosts" yaml:"hosts" mapstructure:"hosts"`
	// PublicIPURL is the endpoint used to discover the public IP.
	PublicIPURL string `json:"publicIpUrl" yaml:"publicIpUrl" mapstructure:"publicIpUrl"`
	// Interval is the interval at which to gather network information.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Timeout is the timeout for DNS lookups and the public IP request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Retry configures the retry behavior of the public IP lookup.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// For returns the name of the check
func (c *Config) For() string {
	return CheckName
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, h := range c.Hosts {
		if strings.HasPrefix(h, "https://") || strings.HasPrefix(h, "http://") {
			return checks.ErrInvalidConfig{CheckName: c.For(), Field: "hosts", Reason: "hosts must not start with 'https://' or 'http://'"}
		}
	}

	if c.PublicIPURL != "" {
		u, err := url.Parse(c.PublicIPURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return checks.ErrInvalidConfig{CheckName: c.For(), Field: "publicIpUrl", Reason: "must be a valid absolute url"}
		}
	}

	if c.Interval < minInterval {
		return checks.ErrInvalidConfig{CheckName: c.For(), Field: "interval", Reason: fmt.Sprintf("interval must be at least %v", minInterval)}
	}

	if c.Timeout < minTimeout {
		return checks.ErrInvalidConfig{CheckName: c.For(), Field: "timeout", Reason: fmt.Sprintf("timeout must be at least %v", minTimeout)}
	}

	return nil
}
