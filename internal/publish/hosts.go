// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package publish tracks which hosts are registered with the publish
// framework, so publish plugins can filter on the host they support.
package publish

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrInvalidHost indicates an empty host name.
var ErrInvalidHost = errors.New("host name cannot be empty")

// HostRegistry tracks registered host names.
// It is safe for concurrent use by multiple goroutines.
type HostRegistry struct {
	mu    sync.RWMutex
	hosts []string
}

var (
	sharedHostsOnce     sync.Once
	sharedHostsRegistry *HostRegistry
)

// NewHostRegistry creates an empty host registry.
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{}
}

// SharedHostRegistry returns the process-wide host registry.
func SharedHostRegistry() *HostRegistry {
	sharedHostsOnce.Do(func() {
		sharedHostsRegistry = NewHostRegistry()
	})
	return sharedHostsRegistry
}

// RegisterHost adds a host name. Registering an already registered
// host is a no-op, so repeated installs stay idempotent.
func (r *HostRegistry) RegisterHost(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidHost
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.hosts, name) {
		return nil
	}
	r.hosts = append(r.hosts, name)
	return nil
}

// DeregisterHost removes a host name. Unknown names are ignored.
func (r *HostRegistry) DeregisterHost(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = slices.DeleteFunc(r.hosts, func(h string) bool { return h == name })
}

// IsRegistered reports whether name has been registered.
func (r *HostRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.hosts, name)
}

// Hosts returns the registered host names in registration order.
func (r *HostRegistry) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.hosts)
}
