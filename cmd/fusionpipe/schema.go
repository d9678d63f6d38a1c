// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/getavalon/fusion-pipeline/pkg/extension"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the extension manifest JSON schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := extension.GenerateSchema()
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}
}
