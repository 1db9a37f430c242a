// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/finch/internal/helper"
	"github.com/telekom/finch/pkg/checks"
)

func TestNetinfo_Check(t *testing.T) {
	n := newTestNetinfo(t)
	n.config = Config{
		Hosts:       []string{"example.com", "broken.test"},
		PublicIPURL: testPublicIPURL,
		Interval:    time.Second,
		Timeout:     time.Second,
		Retry:       helper.RetryConfig{Count: 1, Delay: time.Millisecond},
	}
	n.resolver = &ResolverMock{
		LookupHostFunc: func(_ context.Context, addr string) ([]string, error) {
			if addr == "example.com" {
				return []string{"192.0.2.50"}, nil
			}
			return nil, errors.New("no such host")
		},
	}
	n.interfaces = func() ([]net.Interface, error) {
		return []net.Interface{
			{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
			{Name: "eth0", Flags: 0},
		}, nil
	}
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		httpmock.NewStringResponder(http.StatusOK, "203.0.113.9"))

	res := n.check(t.Context())

	require.Len(t, res.Interfaces, 2)
	assert.Equal(t, "lo", res.Interfaces[0].Name)
	assert.True(t, res.Interfaces[0].Up)
	assert.False(t, res.Interfaces[1].Up)

	require.Contains(t, res.DNS, "example.com")
	assert.Equal(t, []string{"192.0.2.50"}, res.DNS["example.com"].Resolved)
	assert.Empty(t, res.DNS["example.com"].Error)

	require.Contains(t, res.DNS, "broken.test")
	assert.NotEmpty(t, res.DNS["broken.test"].Error)

	assert.Equal(t, "203.0.113.9", res.PublicIP)
}

func TestNetinfo_Check_PublicIPFailure(t *testing.T) {
	n := newTestNetinfo(t)
	n.config = Config{
		PublicIPURL: testPublicIPURL,
		Interval:    time.Second,
		Timeout:     time.Second,
		Retry:       helper.RetryConfig{Count: 1, Delay: time.Millisecond},
	}
	n.interfaces = func() ([]net.Interface, error) { return nil, nil }
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		httpmock.NewStringResponder(http.StatusBadGateway, ""))

	res := n.check(t.Context())
	assert.Empty(t, res.PublicIP)
}

func TestNetinfo_UpdateConfig(t *testing.T) {
	n := newTestNetinfo(t)

	t.Run("mismatched config type", func(t *testing.T) {
		err := n.UpdateConfig(&bogusConfig{})
		var mismatch checks.ErrConfigMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, CheckName, mismatch.Expected)
	})

	t.Run("empty public ip url gets the default", func(t *testing.T) {
		cfg := Config{Interval: time.Second, Timeout: time.Second}
		require.NoError(t, n.UpdateConfig(&cfg))
		got := n.GetConfig().(*Config)
		assert.Equal(t, defaultPublicIPURL, got.PublicIPURL)
	})
}

func TestNetinfo_Schema(t *testing.T) {
	schema, err := NewCheck().Schema()
	require.NoError(t, err)
	assert.NotNil(t, schema)
}

func TestNetinfo_Name(t *testing.T) {
	assert.Equal(t, "netinfo", NewCheck().Name())
}

type bogusConfig struct{}

func (b *bogusConfig) For() string     { return "bogus" }
func (b *bogusConfig) Validate() error { return nil }
