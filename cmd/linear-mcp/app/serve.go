// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dedalus-labs/linear-mcp/pkg/auth"
	"github.com/dedalus-labs/linear-mcp/pkg/dispatch"
	"github.com/dedalus-labs/linear-mcp/pkg/linear"
	"github.com/dedalus-labs/linear-mcp/pkg/logger"
	"github.com/dedalus-labs/linear-mcp/pkg/server"
)

const serverInstructions = "Linear issue tracking MCP server. " +
	"Use these tools to manage issues, projects, and teams in Linear."

var (
	serveHost           string
	servePort           int
	servePublicURL      string
	serveAuthzServer    string
	serveAudience       string
	serveScopes         []string
	serveFailOpen       bool
	serveNoAuth         bool
	serveStateless      bool
	serveAllowPrivate   bool
	serveAllowPlainHTTP bool
)

// newServeCommand creates the 'serve' subcommand
func newServeCommand() *cobra.Command {
	// Check for MCP_PORT environment variable
	defaultPort := server.DefaultPort
	if envPort := os.Getenv("MCP_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			defaultPort = p
		}
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Linear MCP server",
		Long: `Start the Linear MCP server over streamable HTTP.

Requests to the MCP endpoint are authorized with JWTs issued by the configured
authorization server. When an authorization server is set, the JWT validator is
configured automatically. Upstream Linear credentials are resolved per request
from the secrets provider (LINEAR_TOKEN, optionally encrypted).

The port can be configured via the --port flag or the MCP_PORT environment
variable.`,
		RunE: serveCmdFunc,
	}

	cmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to listen on")
	cmd.Flags().IntVar(&servePort, "port", defaultPort, "Port to listen on (can also be set via MCP_PORT env var)")
	cmd.Flags().StringVar(&servePublicURL, "public-url", "", "Externally visible URL, advertised in protected-resource metadata")
	cmd.Flags().StringVar(&serveAuthzServer, "authorization-server", "", "Authorization server URL that issues tokens for this server")
	cmd.Flags().StringVar(&serveAudience, "audience", "", "Expected token audience")
	cmd.Flags().StringSliceVar(&serveScopes, "scopes", nil, "Scopes supported by this server")
	cmd.Flags().BoolVar(&serveFailOpen, "fail-open", false, "Admit requests with invalid tokens as anonymous instead of rejecting them")
	cmd.Flags().BoolVar(&serveNoAuth, "no-auth", false, "Disable request authorization entirely")
	cmd.Flags().BoolVar(&serveStateless, "stateless", true, "Serve each MCP request without session state (required for serverless deployments)")
	cmd.Flags().BoolVar(&serveAllowPrivate, "allow-private-network", false, "Allow the authorization server to resolve to private addresses")
	cmd.Flags().BoolVar(&serveAllowPlainHTTP, "allow-plain-http", false, "Allow a non-HTTPS authorization server")

	// Deployment environment variables take effect when the corresponding
	// flags are left unset.
	_ = viper.BindEnv("oauth.enabled", "OAUTH_ENABLED")
	_ = viper.BindEnv("oauth.scopes", "OAUTH_SCOPES_AVAILABLE")
	_ = viper.BindEnv("authorization.server", "AUTHORIZATION_SERVER")

	return cmd
}

// serveCmdFunc is the main function for the serve command
func serveCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	authzServer := serveAuthzServer
	if authzServer == "" {
		authzServer = viper.GetString("authorization.server")
	}

	scopes := serveScopes
	if len(scopes) == 0 {
		if s := viper.GetString("oauth.scopes"); s != "" {
			scopes = strings.Split(s, ",")
		}
	}

	cfg := &server.Config{
		Name:                "linear",
		Instructions:        serverInstructions,
		Host:                serveHost,
		Port:                servePort,
		PublicURL:           servePublicURL,
		Connections:         []dispatch.Connection{linear.DefaultConnection()},
		AuthorizationServer: authzServer,
		Stateless:           serveStateless,
		AllowPrivateNetwork: serveAllowPrivate,
		AllowPlainHTTP:      serveAllowPlainHTTP,
	}

	enabled := true
	if viper.IsSet("oauth.enabled") {
		enabled = viper.GetBool("oauth.enabled")
	}
	if serveNoAuth {
		enabled = false
	}

	switch {
	case !enabled:
		cfg.Authorization = &auth.Config{Enabled: false}
	case serveFailOpen || serveAudience != "" || len(scopes) > 0:
		authzCfg := &auth.Config{
			Enabled:  true,
			FailOpen: serveFailOpen,
			Audience: serveAudience,
			Scopes:   scopes,
		}
		if authzServer != "" {
			authzCfg.AuthorizationServers = []string{authzServer}
		}
		cfg.Authorization = authzCfg
	}
	// Otherwise leave Authorization nil and let the server derive the default
	// from the authorization server URL.

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	dispatcher, err := dispatch.NewDispatcher(linear.DefaultConnection())
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	linear.RegisterTools(srv.MCPServer(), linear.NewClient(dispatcher))

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server failure
	select {
	case err := <-errCh:
		return err
	case <-sigChan:
		logger.Info("Shutting down MCP server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
