// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package finch

import "errors"

// ErrFinalShutdown is returned by Run after the finch has completed its shutdown
var ErrFinalShutdown = errors.New("finch was shut down")

// ErrShutdown holds any errors that may
// have occurred during shutdown of the Finch
type ErrShutdown struct {
	errAPI       error
	errTelemetry error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errTelemetry != nil
}
