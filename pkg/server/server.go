// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package server assembles the MCP server: protocol handling, routing, and
// authorization.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dedalus-labs/linear-mcp/pkg/auth"
	"github.com/dedalus-labs/linear-mcp/pkg/auth/token"
	"github.com/dedalus-labs/linear-mcp/pkg/logger"
	"github.com/dedalus-labs/linear-mcp/pkg/telemetry"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// Server is an MCP server with authorization and telemetry wired in.
type Server struct {
	config    *Config
	mcpServer *mcpserver.MCPServer
	authzMgr  *AuthorizationManager
	telemetry *telemetry.Provider

	httpServer *http.Server

	listenerMu sync.Mutex
	listener   net.Listener
}

// AutoValidatorEnabled reports whether automatic credential-validator setup
// applies to the given configuration. The decision depends only on whether
// connection definitions are present; supplying an explicit authorization
// configuration does not suppress it.
func AutoValidatorEnabled(cfg *Config) bool {
	return len(cfg.Connections) > 0
}

// New assembles a server from the configuration.
//
// When connection definitions are present, a JWT validator is configured
// automatically against the authorization server (JWKS at
// <server>/.well-known/jwks.json, issuer <server>). The validator can be
// replaced afterwards via AuthorizationManager().SetProvider.
func New(ctx context.Context, cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mcpServer := mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithInstructions(cfg.Instructions),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithLogging(),
	)

	authzMgr := NewAuthorizationManager(cfg.Authorization)

	if AutoValidatorEnabled(cfg) {
		issuer := cfg.issuer()
		if issuer == "" {
			logger.Warn("Connections present but no authorization server configured, skipping automatic validator setup")
		} else {
			validator, err := newAutoValidator(ctx, cfg, issuer)
			if err != nil {
				return nil, fmt.Errorf("failed to configure JWT validator: %w", err)
			}
			authzMgr.SetProvider(validator)
			logger.Infow("Configured JWT validator automatically",
				"issuer", issuer,
				"jwks_url", validator.JWKSURL())
		}
	}

	return &Server{
		config:    cfg,
		mcpServer: mcpServer,
		authzMgr:  authzMgr,
		telemetry: telemetry.NewProvider(cfg.Name),
	}, nil
}

// newAutoValidator builds the automatically configured JWT validator for an
// authorization server URL.
func newAutoValidator(ctx context.Context, cfg *Config, issuer string) (*token.Validator, error) {
	jwksURL, err := url.JoinPath(issuer, ".well-known", "jwks.json")
	if err != nil {
		return nil, fmt.Errorf("invalid authorization server URL %q: %w", issuer, err)
	}

	return token.NewValidator(ctx, token.ValidatorConfig{
		Issuer:         issuer,
		Audience:       cfg.Authorization.Audience,
		JWKSURL:        jwksURL,
		AllowPrivateIP: cfg.AllowPrivateNetwork,
		AllowPlainHTTP: cfg.AllowPlainHTTP,
	})
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// AuthorizationManager returns the server's authorization manager.
func (s *Server) AuthorizationManager() *AuthorizationManager {
	return s.authzMgr
}

// Handler builds the server's HTTP handler: the MCP endpoint behind the
// authorization middleware, plus health, metrics, and OAuth discovery
// endpoints.
func (s *Server) Handler() http.Handler {
	streamableServer := mcpserver.NewStreamableHTTPServer(
		s.mcpServer,
		mcpserver.WithEndpointPath(DefaultEndpointPath),
		mcpserver.WithStateLess(s.config.Stateless),
	)

	resourceURL := s.config.PublicURL

	r := chi.NewRouter()
	r.Use(s.telemetry.Middleware)

	// Unauthenticated endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.telemetry.Handler())
	r.Handle("/.well-known/oauth-protected-resource",
		auth.NewAuthInfoHandler(s.authzMgr.Config(), s.authzMgr.JWKSURL(), resourceURL))

	// MCP endpoint behind the authorization middleware. The middleware reads
	// the manager's provider per request, so SetProvider calls made after
	// this point are honored.
	mcpHandler := s.authzMgr.Middleware(resourceURL)(streamableServer)
	r.Handle(DefaultEndpointPath, mcpHandler)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start listens and serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listenerMu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	httpServer := s.httpServer
	s.listenerMu.Unlock()

	s.authzMgr.logPolicy()
	logger.Infof("Starting %s MCP server on http://%s%s", s.config.Name, listener.Addr(), DefaultEndpointPath)

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Addr returns the bound listen address, or empty before Start.
func (s *Server) Addr() string {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.listenerMu.Lock()
	httpServer := s.httpServer
	s.listenerMu.Unlock()

	if httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
