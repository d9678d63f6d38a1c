// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/getavalon/fusion-pipeline/internal/xdg"
)

// cliConfig holds configuration shared by the CLI subcommands.
type cliConfig struct {
	extensionsDir  string
	ignorePatterns []string
	logLevel       string
}

// Validate checks that the configuration is valid.
func (cfg *cliConfig) Validate() error {
	switch cfg.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error, got %q", cfg.logLevel)
	}
	return nil
}

// Level maps the configured log level onto slog.
func (cfg *cliConfig) Level() slog.Level {
	switch cfg.logLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultLogLevel = "info"

// flagKeys maps CLI flag names onto config keys. Flags outside this
// map stay out of the config.
var flagKeys = map[string]string{
	"extensions-dir": "extensions.dir",
	"ignore":         "extensions.ignore",
	"log-level":      "log.level",
}

// loadConfig builds the effective configuration: defaults, then the
// yaml config file, then command-line flags.
//
// A missing default config file is fine; a config file the user named
// explicitly must exist.
func loadConfig(path string, flags *pflag.FlagSet) (*cliConfig, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if flags != nil {
		prov := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only flags the user actually set may override the file.
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(prov, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &cliConfig{
		extensionsDir:  k.String("extensions.dir"),
		ignorePatterns: k.Strings("extensions.ignore"),
		logLevel:       k.String("log.level"),
	}
	if cfg.extensionsDir == "" {
		cfg.extensionsDir = xdg.ExtensionsDir()
	}
	if cfg.logLevel == "" {
		cfg.logLevel = defaultLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
