// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/getavalon/fusion-pipeline/internal/publish"
	"github.com/getavalon/fusion-pipeline/pkg/extension"
	"github.com/getavalon/fusion-pipeline/pkg/fusion"
	"github.com/getavalon/fusion-pipeline/pkg/fusion/fusiontest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingExtension struct {
	name     string
	installs int
	err      error
}

func (r *recordingExtension) Name() string { return r.name }

func (r *recordingExtension) Install(_ context.Context, _ fusion.Session) error {
	r.installs++
	return r.err
}

func writeManifest(t *testing.T, dir, name, manifest string) {
	t.Helper()
	extDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(extDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(extDir, extension.ManifestFile), []byte(manifest), 0o600))
}

func TestInstall_RegistersHost(t *testing.T) {
	hosts := publish.NewHostRegistry()
	session := fusiontest.NewSession(fusiontest.NewComp("shot010"))

	_, err := Install(context.Background(), session,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(hosts))

	require.NoError(t, err)
	assert.True(t, hosts.IsRegistered(HostName))
}

func TestInstall_Idempotent(t *testing.T) {
	hosts := publish.NewHostRegistry()
	session := fusiontest.NewSession(fusiontest.NewComp("shot010"))
	opts := []Option{
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(hosts),
	}

	_, err := Install(context.Background(), session, opts...)
	require.NoError(t, err)
	_, err = Install(context.Background(), session, opts...)
	require.NoError(t, err)

	assert.Equal(t, []string{HostName}, hosts.Hosts())
}

func TestInstall_ReturnsCompLogger(t *testing.T) {
	comp := fusiontest.NewComp("shot010")
	session := fusiontest.NewSession(comp)

	logger, err := Install(context.Background(), session,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()))

	require.NoError(t, err)
	logger.Info("hello comp")
	assert.Equal(t, []string{"hello comp\n"}, comp.Printed())
}

func TestInstall_LogLevel(t *testing.T) {
	comp := fusiontest.NewComp("shot010")
	session := fusiontest.NewSession(comp)

	logger, err := Install(context.Background(), session,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()),
		WithLogLevel(slog.LevelWarn))

	require.NoError(t, err)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.Equal(t, []string{"loud\n"}, comp.Printed())
}

func TestInstall_DefaultLoggerOptIn(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	comp := fusiontest.NewComp("shot010")
	session := fusiontest.NewSession(comp)

	_, err := Install(context.Background(), session,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()),
		WithDefaultLogger())

	require.NoError(t, err)
	slog.Info("via default")
	assert.Equal(t, []string{"via default\n"}, comp.Printed())
}

func TestInstall_DefaultLoggerUntouchedWithoutOptIn(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	session := fusiontest.NewSession(fusiontest.NewComp("shot010"))

	_, err := Install(context.Background(), session,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()))

	require.NoError(t, err)
	assert.Same(t, original, slog.Default())
}

func TestInstall_RunsExtensions(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "colorbleed", "name: colorbleed\nversion: 1.0.0\nrequires: \">=2.0.0 <3.0.0\"\n")

	registry := extension.NewRegistry()
	ext := &recordingExtension{name: "colorbleed"}
	require.NoError(t, registry.Register(ext))

	_, err := Install(context.Background(), fusiontest.NewSession(nil),
		WithExtensionsDir(dir),
		WithRegistry(registry),
		WithHostRegistry(publish.NewHostRegistry()))

	require.NoError(t, err)
	assert.Equal(t, 1, ext.installs)
}

func TestInstall_MissingExtensionsDirTolerated(t *testing.T) {
	_, err := Install(context.Background(), fusiontest.NewSession(nil),
		WithExtensionsDir(filepath.Join(t.TempDir(), "absent")),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()))

	require.NoError(t, err)
}

func TestInstall_FailingExtensionTolerated(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "broken-ext", "name: broken-ext\nversion: 1.0.0\n")

	registry := extension.NewRegistry()
	require.NoError(t, registry.Register(&recordingExtension{
		name: "broken-ext",
		err:  errors.New("install blew up"),
	}))

	_, err := Install(context.Background(), fusiontest.NewSession(nil),
		WithExtensionsDir(dir),
		WithRegistry(registry),
		WithHostRegistry(publish.NewHostRegistry()))

	require.NoError(t, err)
}

func TestInstall_NilSession(t *testing.T) {
	_, err := Install(context.Background(), nil,
		WithExtensionsDir(t.TempDir()),
		WithRegistry(extension.NewRegistry()),
		WithHostRegistry(publish.NewHostRegistry()))

	require.Error(t, err)
}
