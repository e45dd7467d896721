// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory creates a backend instance. It returns an error when the backend
// cannot run in the current process.
type Factory func() (Backend, error)

// Standard priorities. Higher is preferred by OpenDefault.
const (
	PriorityNative   = 100
	PrioritySoftware = 10
)

type registration struct {
	name     string
	priority int
	factory  Factory
}

var (
	registryMu    sync.RWMutex
	registrations = make(map[string]registration)
)

// Register adds a backend factory under name. Registering a name again
// replaces the previous factory and priority.
func Register(name string, priority int, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registrations[name] = registration{name: name, priority: priority, factory: factory}
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registrations, name)
}

// Available returns the registered names, highest priority first.
// Equal priorities are ordered by name.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	regs := make([]registration, 0, len(registrations))
	for _, r := range registrations {
		regs = append(regs, r)
	}
	slices.SortFunc(regs, func(a, b registration) int {
		if a.priority != b.priority {
			return b.priority - a.priority
		}
		return strings.Compare(a.name, b.name)
	})

	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.name
	}
	return names
}

// Open creates the backend registered under name and initializes it.
func Open(name string) (Backend, error) {
	registryMu.RLock()
	r, ok := registrations[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}

	b, err := r.factory()
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("backend %q: init: %w", name, err)
	}
	return b, nil
}

// OpenDefault opens the highest-priority backend that can be created and
// initialized. When none succeeds the error matches ErrBackendNotAvailable
// and carries every attempt's failure.
func OpenDefault() (Backend, error) {
	errs := []error{ErrBackendNotAvailable}
	for _, name := range Available() {
		b, err := Open(name)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
