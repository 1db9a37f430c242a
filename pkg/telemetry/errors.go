// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "fmt"

// ErrInvalidExporter is returned when an unknown exporter is configured
type ErrInvalidExporter struct {
	exporter Exporter
}

func (e ErrInvalidExporter) Error() string {
	return fmt.Sprintf("invalid exporter %q", string(e.exporter))
}
