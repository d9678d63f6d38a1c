package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the fusionpipe CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fusionpipe",
		Short: "fusionpipe - Avalon pipeline tooling for Fusion",
		Long: `fusionpipe inspects and validates the Fusion pipeline integration:
extension manifests, their JSON schema, and the configuration the
pipeline installs with inside the host.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewExtensionsCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}
