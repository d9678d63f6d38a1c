package extension

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// Manager discovers extension manifests and installs the matching
// registered extensions.
type Manager struct {
	extensionsDir  string
	registry       *Registry
	ignorePatterns []glob.Glob
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithIgnorePatterns skips extension directories whose base name
// matches any of the glob patterns, e.g. "*.disabled".
// Invalid patterns are ignored.
func WithIgnorePatterns(patterns []string) ManagerOption {
	return func(m *Manager) {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				slog.Warn("ignoring invalid extension ignore pattern",
					"pattern", p,
					"error", err)
				continue
			}
			m.ignorePatterns = append(m.ignorePatterns, g)
		}
	}
}

// NewManager creates an extension manager over extensionsDir.
func NewManager(extensionsDir string, registry *Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		extensionsDir: extensionsDir,
		registry:      registry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DiscoveredExtension contains a manifest and its directory.
type DiscoveredExtension struct {
	Manifest *Manifest
	Dir      string
}

// Discover finds all valid extension manifests in the extensions
// directory. Invalid manifests are logged and skipped; a missing
// directory yields no extensions and no error.
func (m *Manager) Discover(_ context.Context) ([]*DiscoveredExtension, error) {
	entries, err := os.ReadDir(m.extensionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No extensions directory
		}
		return nil, fmt.Errorf("failed to read extensions directory: %w", err)
	}

	var discovered []*DiscoveredExtension
	for _, entry := range entries {
		if !entry.IsDir() || m.ignored(entry.Name()) {
			continue
		}

		extDir := filepath.Join(m.extensionsDir, entry.Name())
		manifestPath := filepath.Join(extDir, ManifestFile)

		data, err := os.ReadFile(manifestPath) //nolint:gosec // manifestPath is constructed from ReadDir entries
		if err != nil {
			slog.Warn("skipping extension without manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		manifest, err := ParseManifest(data)
		if err != nil {
			slog.Warn("skipping extension with invalid manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		discovered = append(discovered, &DiscoveredExtension{
			Manifest: manifest,
			Dir:      extDir,
		})
	}

	return discovered, nil
}

// InstallAll discovers manifests and installs their extensions into
// the session.
//
// Individual extension failures degrade gracefully: an incompatible
// requires constraint, a name with no registration, or a failing
// Install is logged and skipped so the pipeline still comes up. Only a
// failure to scan the directory itself is returned.
func (m *Manager) InstallAll(ctx context.Context, session fusion.Session) error {
	discovered, err := m.Discover(ctx)
	if err != nil {
		return err
	}

	for _, de := range discovered {
		name := de.Manifest.Name

		ok, err := de.Manifest.Compatible(APIVersion)
		if err != nil {
			slog.Warn("skipping extension with invalid requires",
				"extension", name,
				"error", err)
			continue
		}
		if !ok {
			slog.Warn("skipping incompatible extension",
				"extension", name,
				"requires", de.Manifest.Requires,
				"pipeline", APIVersion)
			continue
		}

		ext, found := m.registry.Lookup(name)
		if !found {
			// Manifests may name extensions this binary was built
			// without; that is not an error.
			slog.Warn("no registered extension for manifest, skipping",
				"extension", name)
			continue
		}

		if err := ext.Install(ctx, session); err != nil {
			installErr := oops.Code("EXTENSION_INSTALL_FAILED").
				With("extension", name).
				Wrap(err)
			slog.Error("failed to install extension",
				"extension", name,
				"error", installErr)
			continue
		}

		slog.Debug("installed extension",
			"extension", name,
			"version", de.Manifest.Version)
	}

	return nil
}

// ignored reports whether a directory name matches an ignore pattern.
func (m *Manager) ignored(name string) bool {
	for _, g := range m.ignorePatterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
