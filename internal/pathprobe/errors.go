// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package pathprobe

import "errors"

// ErrExecutorUnavailable is returned by DiagnosePath when the probe
// executor cannot run any probes, e.g. because no ping binary is on the
// PATH. The wrapped error carries the executor's reason.
var ErrExecutorUnavailable = errors.New("probe executor unavailable")
