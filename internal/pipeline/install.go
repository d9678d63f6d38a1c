// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package pipeline wires the Fusion host into the asset pipeline.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/getavalon/fusion-pipeline/internal/logging"
	"github.com/getavalon/fusion-pipeline/internal/publish"
	"github.com/getavalon/fusion-pipeline/internal/xdg"
	"github.com/getavalon/fusion-pipeline/pkg/extension"
	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// HostName identifies this integration to the publish framework.
const HostName = "fusion"

// Option configures Install.
type Option func(*config)

type config struct {
	extensionsDir  string
	ignorePatterns []string
	registry       *extension.Registry
	hosts          *publish.HostRegistry
	logLevel       slog.Level
	defaultLogger  bool
}

// WithExtensionsDir overrides the directory scanned for extension
// manifests.
func WithExtensionsDir(dir string) Option {
	return func(cfg *config) { cfg.extensionsDir = dir }
}

// WithIgnorePatterns skips extension directories matching the globs.
func WithIgnorePatterns(patterns []string) Option {
	return func(cfg *config) { cfg.ignorePatterns = patterns }
}

// WithRegistry overrides the shared extension registry.
func WithRegistry(r *extension.Registry) Option {
	return func(cfg *config) { cfg.registry = r }
}

// WithHostRegistry overrides the shared publish host registry.
func WithHostRegistry(r *publish.HostRegistry) Option {
	return func(cfg *config) { cfg.hosts = r }
}

// WithLogLevel sets the minimum level routed to the comp console.
func WithLogLevel(level slog.Level) Option {
	return func(cfg *config) { cfg.logLevel = level }
}

// WithDefaultLogger additionally installs the comp-routing logger as
// the process default. Without it the caller wires the returned logger
// themselves.
func WithDefaultLogger() Option {
	return func(cfg *config) { cfg.defaultLogger = true }
}

// Install wires Fusion-specific pipeline functionality into a session.
//
// It registers the host with the publish framework, builds a logger
// that routes to the comp console, and installs every extension whose
// manifest is discovered and registered. An absent extensions
// directory, or an extension that fails, is tolerated; only host
// registration and directory-scan failures are returned.
func Install(ctx context.Context, session fusion.Session, opts ...Option) (*slog.Logger, error) {
	cfg := &config{
		extensionsDir: xdg.ExtensionsDir(),
		registry:      extension.SharedRegistry(),
		hosts:         publish.SharedHostRegistry(),
		logLevel:      slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if session == nil {
		return nil, oops.Code("PIPELINE_NO_SESSION").Errorf("session is required")
	}

	if err := cfg.hosts.RegisterHost(HostName); err != nil {
		return nil, oops.Code("PIPELINE_HOST_REGISTRATION_FAILED").
			With("host", HostName).
			Wrap(err)
	}

	logger := logging.Setup(session, cfg.logLevel)
	if cfg.defaultLogger {
		slog.SetDefault(logger)
	}

	mgr := extension.NewManager(cfg.extensionsDir, cfg.registry,
		extension.WithIgnorePatterns(cfg.ignorePatterns))
	if err := mgr.InstallAll(ctx, session); err != nil {
		return nil, oops.Code("PIPELINE_EXTENSIONS_FAILED").
			With("dir", cfg.extensionsDir).
			Wrap(err)
	}

	return logger, nil
}
