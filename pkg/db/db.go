// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"sync"

	"github.com/telekom/finch/pkg/checks"
)

type DB interface {
	Save(result checks.ResultDTO)
	Get(check string) (result checks.Result, ok bool)
	List() map[string]checks.Result
}

var _ DB = (*InMemory)(nil)

// InMemory is a thread-safe in-memory database
// that holds the latest result of every check
type InMemory struct {
	// data is a map of check name to the last result of that check
	data sync.Map
}

// NewInMemory creates a new in-memory database
func NewInMemory() *InMemory {
	return &InMemory{
		data: sync.Map{},
	}
}

func (i *InMemory) Save(result checks.ResultDTO) {
	i.data.Store(result.Name, result.Result)
}

func (i *InMemory) Get(check string) (checks.Result, bool) {
	val, ok := i.data.Load(check)
	if !ok {
		return checks.Result{}, false
	}
	// We should never be in the situation that this type assertion fails,
	// because we only save checks.Result. If this panics we did something
	// horribly wrong.
	result := val.(*checks.Result)
	return *result, true
}

// List returns a copy of the latest result of every check
func (i *InMemory) List() map[string]checks.Result {
	results := map[string]checks.Result{}
	i.data.Range(func(key, value any) bool {
		check := key.(string)
		result := value.(*checks.Result)
		results[check] = *result
		return true
	})

	return results
}
