// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		target string
		want   ProbeResult
	}{
		{
			name:   "intermediate hop ttl exceeded",
			raw:    "PING example.com (192.0.2.50) 56(84) bytes of data.\nFrom 10.0.0.1: icmp_seq=1 Time to live exceeded\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "10.0.0.1"},
		},
		{
			name:   "destination reply with rtt",
			raw:    "64 bytes from 192.0.2.50: icmp_seq=1 ttl=56 time=23 ms\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 23, HasRTT: true},
		},
		{
			name:   "banner echo of target is not a reply",
			raw:    "PING example.com (192.0.2.50) 56(84) bytes of data.\n",
			target: "192.0.2.50",
			want:   ProbeResult{},
		},
		{
			name:   "banner echo followed by real reply",
			raw:    "PING example.com (192.0.2.50) 56(84) bytes of data.\n64 bytes from 192.0.2.50: icmp_seq=1 ttl=56 time=11.8 ms\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 11.8, HasRTT: true},
		},
		{
			name:   "localized banner with byte-count token is not a reply",
			raw:    "PING ejemplo.com (192.0.2.50) 56(84) bytes de datos.\n",
			target: "192.0.2.50",
			want:   ProbeResult{},
		},
		{
			name:   "windows banner is not a reply",
			raw:    "Pinging example.com [192.0.2.50] with 32 bytes of data:\n\nRequest timed out.\n",
			target: "192.0.2.50",
			want:   ProbeResult{},
		},
		{
			name:   "localized banner followed by real reply",
			raw:    "PING ejemplo.com (192.0.2.50) 56(84) bytes de datos.\n64 bytes de 192.0.2.50: icmp_seq=1 ttl=56 tiempo=6.1 ms\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 6.1, HasRTT: true},
		},
		{
			name:   "german locale reply",
			raw:    "Antwort von 192.0.2.50: Bytes=32 Zeit=42ms TTL=56\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 42, HasRTT: true},
		},
		{
			name:   "french locale decimal comma",
			raw:    "64 octets de 192.0.2.50 : icmp_seq=1 ttl=56 temps=8,3 ms\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 8.3, HasRTT: true},
		},
		{
			name:   "windows sub-millisecond reply",
			raw:    "Reply from 192.0.2.50: bytes=32 time<1ms TTL=128\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true, RTT: 1, HasRTT: true},
		},
		{
			name:   "unknown locale corroborated by seq marker",
			raw:    "valasz 192.0.2.50: icmp_seq=1\n",
			target: "192.0.2.50",
			want:   ProbeResult{Addr: "192.0.2.50", Destination: true},
		},
		{
			name:   "ipv6 intermediate hop",
			raw:    "From 2001:db8::1 icmp_seq=1 Time exceeded: Hop limit\n",
			target: "2001:db8::50",
			want:   ProbeResult{Addr: "2001:db8::1"},
		},
		{
			name:   "ipv6 destination reply",
			raw:    "64 bytes from 2001:db8::50: icmp_seq=1 ttl=56 time=17.2 ms\n",
			target: "2001:db8::50",
			want:   ProbeResult{Addr: "2001:db8::50", Destination: true, RTT: 17.2, HasRTT: true},
		},
		{
			name:   "no reply at all",
			raw:    "Request timed out.\n",
			target: "192.0.2.50",
			want:   ProbeResult{},
		},
		{
			name:   "empty output",
			raw:    "",
			target: "192.0.2.50",
			want:   ProbeResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.raw, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Addr == "", got.Timeout())
		})
	}
}

func TestClassifyDirect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ProbeResult
	}{
		{
			name: "alive with rtt",
			raw:  "64 bytes from 192.0.2.50: icmp_seq=1 ttl=56 time=9.4 ms\n",
			want: ProbeResult{Destination: true, RTT: 9.4, HasRTT: true},
		},
		{
			name: "alive with decimal comma",
			raw:  "64 octets de 192.0.2.50 : icmp_seq=1 ttl=56 temps=9,4 ms\n",
			want: ProbeResult{Destination: true, RTT: 9.4, HasRTT: true},
		},
		{
			name: "dead without any ms value",
			raw:  "Request timed out.\n",
			want: ProbeResult{},
		},
		{
			name: "empty output",
			raw:  "",
			want: ProbeResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDirect(tt.raw))
		})
	}
}

func TestFirstAddress(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"plain ipv4", "From 10.0.0.1 icmp_seq=1", "10.0.0.1"},
		{"ipv4 with trailing colon", "From 10.0.0.1: icmp_seq=1", "10.0.0.1"},
		{"ipv4 with trailing comma", "reply from 10.0.0.1, ttl=64", "10.0.0.1"},
		{"ipv6", "From 2001:db8::1 icmp_seq=1", "2001:db8::1"},
		{"earliest of two addresses wins", "From 10.0.0.1 towards 192.0.2.50", "10.0.0.1"},
		{"no address", "Request timed out.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstAddress(tt.line))
		})
	}
}
