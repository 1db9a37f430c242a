// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"errors"
	"iter"

	"github.com/telekom/finch/pkg/checks"
	"github.com/telekom/finch/pkg/checks/netinfo"
	"github.com/telekom/finch/pkg/checks/pathprobe"
)

// Config holds the runtime configuration
// for the various checks
// the finch supports
type Config struct {
	Pathprobe *pathprobe.Config `yaml:"pathprobe" json:"pathprobe"`
	Netinfo   *netinfo.Config   `yaml:"netinfo" json:"netinfo"`
}

// Empty returns true if no checks are configured
func (c Config) Empty() bool {
	return c.size() == 0
}

func (c Config) Validate() (err error) {
	for cfg := range c.Iter() {
		if vErr := cfg.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}

	return err
}

// Iter returns configured checks as an iterator
func (c Config) Iter() iter.Seq[checks.Runtime] {
	return func(yield func(checks.Runtime) bool) {
		if c.Pathprobe != nil {
			if !yield(c.Pathprobe) {
				return
			}
		}
		if c.Netinfo != nil {
			if !yield(c.Netinfo) {
				return
			}
		}
	}
}

// size returns the number of checks configured
func (c Config) size() int {
	size := 0
	if c.HasPathprobeCheck() {
		size++
	}
	if c.HasNetinfoCheck() {
		size++
	}
	return size
}

// HasPathprobeCheck returns true if the config has a pathprobe check configured
func (c Config) HasPathprobeCheck() bool {
	return c.Pathprobe != nil
}

// HasNetinfoCheck returns true if the config has a netinfo check configured
func (c Config) HasNetinfoCheck() bool {
	return c.Netinfo != nil
}

// HasCheck returns true if the config has a check with the given name configured
func (c Config) HasCheck(name string) bool {
	switch name {
	case pathprobe.CheckName:
		return c.HasPathprobeCheck()
	case netinfo.CheckName:
		return c.HasNetinfoCheck()
	default:
		return false
	}
}

// For returns the runtime configuration for the check with the given name
func (c Config) For(name string) checks.Runtime {
	switch name {
	case pathprobe.CheckName:
		if c.HasPathprobeCheck() {
			return c.Pathprobe
		}
	case netinfo.CheckName:
		if c.HasNetinfoCheck() {
			return c.Netinfo
		}
	}
	return nil
}
