// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// ipv4Pattern matches an IPv4-shaped token.
	ipv4Pattern = regexp.MustCompile(`(\d{1,3}\.){3}\d{1,3}`)
	// ipv6Pattern matches an IPv6-shaped token. At least two colon
	// groups are required to avoid false positives on timestamps and
	// MAC-address fragments.
	ipv6Pattern = regexp.MustCompile(`(?i)([0-9a-f]{1,4}:){2,}[0-9a-f:]+`)
	// rttPattern extracts a millisecond value introduced by a marker,
	// e.g. "time=23 ms", "Zeit=23ms" or "time<1ms".
	rttPattern = regexp.MustCompile(`(?i)[=<]\s*([0-9]+([.,][0-9]+)?)\s*ms`)
	// msPattern matches any millisecond value in the output.
	msPattern = regexp.MustCompile(`(?i)([0-9]+([.,][0-9]+)?)\s*ms`)
)

// timeMarkers are the "time=" tokens ping emits in the locales the
// classifier understands. Matched case-insensitively against the line.
var timeMarkers = []string{
	"time=", "time<", // English
	"zeit=",   // German
	"temps=",  // French
	"tiempo=", // Spanish
	"tempo=",  // Italian, Portuguese
	"tijd=",   // Dutch
	"czas=",   // Polish
	"süre=",   // Turkish
	"время=",  // Russian
	"时间=",     // Chinese
}

// seqMarkers are sequence and byte-count tokens that corroborate a real
// reply line, for locales whose time marker is unknown.
var seqMarkers = []string{
	"icmp_seq=",
	"seq=",
	"ttl=",
	"bytes from", // English
	"bytes de",   // Spanish, Portuguese
	"octets de",  // French
	"bytes von",  // German
	"байт от",    // Russian
	"字节",         // Chinese
}

// classify interprets the raw output of a TTL-limited probe against the
// given target address. Lines are scanned in order and the first
// qualifying match wins: a non-target address is an intermediate hop
// reply, the target address is a destination reply only when the same
// line carries corroborating reply evidence. Output without any
// qualifying line is a timeout.
func classify(raw, target string) ProbeResult {
	for line := range strings.Lines(raw) {
		// Banner lines echo the target address and, in some locales,
		// a byte-count token ("56(84) bytes de datos") without being
		// a reply.
		if isBanner(line) {
			continue
		}

		addr := firstAddress(line)
		if addr == "" {
			continue
		}

		if addr != target {
			// Intermediate TTL-exceeded replies carry no usable RTT.
			return ProbeResult{Addr: addr}
		}

		// The target address without reply evidence may be a banner
		// echo (e.g. the "PING host (addr)" header), keep scanning.
		if !hasReplyEvidence(line) {
			continue
		}

		res := ProbeResult{Addr: target, Destination: true}
		res.RTT, res.HasRTT = extractRTT(line)
		return res
	}
	return ProbeResult{}
}

// classifyDirect interprets the raw output of a direct (non-TTL) probe:
// the presence of any millisecond value marks the probe alive with that
// RTT, its absence marks it dead.
func classifyDirect(raw string) ProbeResult {
	m := msPattern.FindStringSubmatch(raw)
	if m == nil {
		return ProbeResult{}
	}

	rtt, err := parseMs(m[1])
	if err != nil {
		return ProbeResult{}
	}
	return ProbeResult{Destination: true, RTT: rtt, HasRTT: true}
}

// isBanner reports whether the line is the ping startup header, e.g.
// "PING host (addr) 56(84) bytes of data." or "Pinging host [addr]
// with 32 bytes of data:".
func isBanner(line string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "ping")
}

// firstAddress extracts the first IPv4/IPv6-shaped token from the line,
// stripping trailing separator artifacts like the colon in
// "From 192.168.1.1: icmp_seq=1 Time to live exceeded".
func firstAddress(line string) string {
	v4 := ipv4Pattern.FindStringIndex(line)
	v6 := ipv6Pattern.FindStringIndex(line)

	loc := v4
	if loc == nil || (v6 != nil && v6[0] < loc[0]) {
		loc = v6
	}
	if loc == nil {
		return ""
	}
	return strings.TrimRight(line[loc[0]:loc[1]], ":,")
}

// hasReplyEvidence reports whether the line carries a locale-tolerant
// time marker, a sequence/byte-count marker, or a millisecond value.
func hasReplyEvidence(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range timeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, marker := range seqMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return msPattern.MatchString(line)
}

// extractRTT pulls the millisecond value out of a reply line. Values
// introduced by a marker ("time=23ms") are preferred over bare ones.
func extractRTT(line string) (float64, bool) {
	m := rttPattern.FindStringSubmatch(line)
	if m == nil {
		m = msPattern.FindStringSubmatch(line)
	}
	if m == nil {
		return 0, false
	}

	rtt, err := parseMs(m[1])
	if err != nil {
		return 0, false
	}
	return rtt, true
}

// parseMs parses a millisecond value, tolerating a decimal comma.
func parseMs(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
