// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Ember CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Ember - a small multiplayer text world",
		Long: `Ember runs a telnet MUD: a fixed-rate simulation loop fed by a
connection layer, with authentication delegated to a credential service.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(newServerCmd())
	cmd.AddCommand(newAuthdCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
