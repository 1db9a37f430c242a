// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pathprobe diagnoses the network path to a target the way mtr
// does, built entirely on the system ping primitive so it needs no raw
// socket privileges.
//
// A diagnosis has two phases. Discovery fires TTL-limited probes in
// ascending batches and classifies each reply by its raw text output,
// tolerating localized ping variants, until the destination answers or
// the TTL ceiling is reached. Aggregation then re-probes every
// discovered hop directly across a number of measurement cycles and
// maintains mtr-style per-hop statistics: loss, average, best, worst
// and standard deviation. After each cycle an immutable snapshot of all
// rows is handed to an optional progress callback.
package pathprobe
