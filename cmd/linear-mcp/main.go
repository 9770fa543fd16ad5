// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package main is the entry point for the Linear MCP server.
package main

import (
	"os"

	"github.com/dedalus-labs/linear-mcp/cmd/linear-mcp/app"
	"github.com/dedalus-labs/linear-mcp/pkg/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
