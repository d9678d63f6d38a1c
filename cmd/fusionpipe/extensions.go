// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/getavalon/fusion-pipeline/pkg/extension"
)

// NewExtensionsCmd creates the extensions subcommand.
func NewExtensionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "Inspect pipeline extensions",
	}

	cmd.PersistentFlags().String("extensions-dir", "", "extensions directory (default: XDG config dir)")
	cmd.PersistentFlags().StringSlice("ignore", nil, "glob patterns for extension directories to skip")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newExtensionsListCmd())
	cmd.AddCommand(newExtensionsValidateCmd())

	return cmd
}

func newExtensionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered extension manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			mgr := extension.NewManager(cfg.extensionsDir, extension.SharedRegistry(),
				extension.WithIgnorePatterns(cfg.ignorePatterns))
			discovered, err := mgr.Discover(cmd.Context())
			if err != nil {
				return err
			}

			if len(discovered) == 0 {
				cmd.Printf("no extensions found in %s\n", cfg.extensionsDir)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tREQUIRES\tDIR")
			for _, de := range discovered {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					de.Manifest.Name,
					de.Manifest.Version,
					de.Manifest.Requires,
					de.Dir)
			}
			return w.Flush()
		},
	}
}

func newExtensionsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest-or-dir>",
		Short: "Validate an extension manifest against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, extension.ManifestFile)
			}

			data, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			if err := extension.ValidateSchema(data); err != nil {
				return fmt.Errorf("%s: %s", path, extension.FormatSchemaError(err))
			}
			if _, err := extension.ParseManifest(data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			cmd.Printf("%s is valid\n", path)
			return nil
		},
	}
}
