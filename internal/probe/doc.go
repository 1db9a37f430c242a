// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package probe wraps the platform ping binary behind the executor
// interface the path probe engine consumes. Flag dialects differ per
// platform and are selected at build time.
package probe
