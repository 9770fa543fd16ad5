// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package app provides the entry point for the linear-mcp command-line
// application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dedalus-labs/linear-mcp/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "linear-mcp",
	DisableAutoGenTag: true,
	Short:             "OAuth-protected MCP server for Linear issue tracking",
	Long: `linear-mcp is an MCP (Model Context Protocol) server for Linear issue tracking.

It exposes Linear's issues, projects, cycles, comments, labels, documents, and
webhooks as MCP tools over streamable HTTP. Upstream credentials are resolved
per request through the dispatch layer, so OAuth tokens never live in the
server process configuration.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the Linear MCP CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
