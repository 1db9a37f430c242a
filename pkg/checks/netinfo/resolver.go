// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package netinfo

import (
	"context"
	"net"
)

//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	LookupHost(ctx context.Context, addr string) ([]string, error)
}

type resolver struct {
	*net.Resolver
}

func NewResolver() Resolver {
	return &resolver{
		Resolver: &net.Resolver{},
	}
}
