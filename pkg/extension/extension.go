// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package extension manages studio-specific pipeline extensions.
//
// An extension is compiled into the embedding binary and registered by
// name; an extension.yaml manifest on disk selects it and gates it on a
// pipeline version constraint. Install resolves manifests against the
// registry, so a manifest without a matching registration is skipped,
// never fatal.
package extension

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// APIVersion is the pipeline version manifests constrain against. The
// major generation tracks the container schema generation.
const APIVersion = "2.0.0"

// ErrInvalidExtensionName indicates an empty extension name.
var ErrInvalidExtensionName = errors.New("extension name cannot be empty")

// ErrDuplicateExtension indicates an extension is already registered.
var ErrDuplicateExtension = errors.New("extension already registered")

// Extension is host-specific functionality installed into a session.
type Extension interface {
	// Name returns the registry name, matched against manifest names.
	Name() string

	// Install wires the extension into the session. It runs on the
	// host's scripting thread during pipeline install.
	Install(ctx context.Context, session fusion.Session) error
}

// Registry manages named extensions.
// It is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
}

var (
	sharedRegistryOnce sync.Once
	sharedRegistry     *Registry
)

// NewRegistry creates an empty extension registry.
func NewRegistry() *Registry {
	return &Registry{extensions: make(map[string]Extension)}
}

// SharedRegistry returns the process-wide extension registry.
func SharedRegistry() *Registry {
	sharedRegistryOnce.Do(func() {
		sharedRegistry = NewRegistry()
	})
	return sharedRegistry
}

// Register adds an extension to the registry.
// Returns ErrInvalidExtensionName for empty names and
// ErrDuplicateExtension on duplicates.
func (r *Registry) Register(ext Extension) error {
	if ext == nil {
		return errors.New("extension cannot be nil")
	}

	name := strings.TrimSpace(ext.Name())
	if name == "" {
		return ErrInvalidExtensionName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extensions[name]; exists {
		return ErrDuplicateExtension
	}
	if r.extensions == nil {
		r.extensions = make(map[string]Extension)
	}
	r.extensions[name] = ext
	return nil
}

// MustRegister adds an extension to the registry, panicking on error.
// This is intended for package initialization only.
func (r *Registry) MustRegister(ext Extension) {
	if err := r.Register(ext); err != nil {
		panic(err)
	}
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.extensions[name]
	return ext, ok
}

// Names returns all registered extension names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.extensions))
	for name := range r.extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
