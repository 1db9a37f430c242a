// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

// ErrInvalidListeningAddress is returned when the listening address is empty
var ErrInvalidListeningAddress = errors.New("invalid listening address")

// ErrUnsupportedMethod is returned when a route uses an unsupported http method
type ErrUnsupportedMethod struct {
	Method string
}

func (e ErrUnsupportedMethod) Error() string {
	return fmt.Sprintf("unsupported http method %q", e.Method)
}
