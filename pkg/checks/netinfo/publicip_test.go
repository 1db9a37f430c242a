// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/finch/internal/helper"
)

const testPublicIPURL = "https://ip.test.invalid"

func newTestNetinfo(t testing.TB) *Netinfo {
	t.Helper()
	n, ok := NewCheck().(*Netinfo)
	require.True(t, ok, "NewCheck should return a Netinfo check")
	n.config.Retry = helper.RetryConfig{Count: 1, Delay: time.Millisecond}

	httpmock.ActivateNonDefault(n.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return n
}

func testPublicIPConfig(retry helper.RetryConfig) Config {
	return Config{
		PublicIPURL: testPublicIPURL,
		Timeout:     time.Second,
		Retry:       retry,
	}
}

func TestFetchPublicIP(t *testing.T) {
	n := newTestNetinfo(t)
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		httpmock.NewStringResponder(http.StatusOK, "203.0.113.9\n"))

	ip, err := n.fetchPublicIP(t.Context(), testPublicIPConfig(n.config.Retry))
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", ip)
}

func TestFetchPublicIP_InvalidBody(t *testing.T) {
	n := newTestNetinfo(t)
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		httpmock.NewStringResponder(http.StatusOK, "<html>not an ip</html>"))

	_, err := n.fetchPublicIP(t.Context(), testPublicIPConfig(n.config.Retry))
	assert.Error(t, err)
}

func TestFetchPublicIP_ServerError(t *testing.T) {
	n := newTestNetinfo(t)
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	_, err := n.fetchPublicIP(t.Context(), testPublicIPConfig(n.config.Retry))
	assert.Error(t, err)
	// The initial attempt plus one retry.
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestFetchPublicIP_RetriesTransientFailure(t *testing.T) {
	n := newTestNetinfo(t)
	calls := 0
	httpmock.RegisterResponder(http.MethodGet, testPublicIPURL,
		func(*http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusServiceUnavailable, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "203.0.113.9"), nil
		})

	ip, err := n.fetchPublicIP(t.Context(), testPublicIPConfig(n.config.Retry))
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", ip)
	assert.Equal(t, 2, calls)
}
