// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/telekom/finch/internal/pathprobe"
	"github.com/telekom/finch/pkg/checks"
)

// Config is the configuration for the path probe check
type Config struct {
	// Targets is a list of addresses to diagnose the path to.
	Targets []string `json:"targets" yaml:"targets" mapstructure:"targets"`
	// Interval is the interval at which to run the path probe check.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Cycles is the number of measurement cycles per diagnosis.
	Cycles int `json:"cycles" yaml:"cycles" mapstructure:"cycles"`
	// Options are the options for the path probe engine.
	pathprobe.Options `json:",inline" yaml:",inline" mapstructure:",squash"`
}

func (c *Config) For() string {
	return CheckName
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "pathprobe.interval", Reason: "must be greater than 0"}
	}

	if c.Cycles <= 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "pathprobe.cycles", Reason: "must be greater than 0"}
	}

	for i, t := range c.Targets {
		if net.ParseIP(t) != nil {
			continue
		}

		if _, err := url.Parse(t); err != nil {
			return checks.ErrInvalidConfig{CheckName: CheckName, Field: fmt.Sprintf("pathprobe.targets[%d]", i), Reason: "invalid url or ip"}
		}
	}
	return nil
}
