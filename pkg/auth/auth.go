// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package auth provides authorization configuration and bearer-token
// enforcement for the MCP server.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Config controls whether authorization is enforced and how failures are
// handled.
type Config struct {
	// Enabled turns authorization enforcement on.
	Enabled bool `json:"enabled"`

	// FailOpen admits requests whose credentials fail validation instead of
	// rejecting them. This permits unauthenticated deployment-validation
	// calls; it is discouraged outside that use.
	FailOpen bool `json:"fail_open"`

	// AuthorizationServers lists the authorization servers that issue
	// accepted tokens. Advertised in RFC 9728 protected-resource metadata.
	AuthorizationServers []string `json:"authorization_servers,omitempty"`

	// Audience is the expected token audience, if any.
	Audience string `json:"audience,omitempty"`

	// Scopes are the scopes advertised to clients.
	Scopes []string `json:"scopes,omitempty"`
}

// DefaultConfig returns the authorization configuration used when none is
// supplied explicitly: enforcement is on exactly when an authorization
// server is configured.
func DefaultConfig(authorizationServer string) *Config {
	cfg := &Config{}
	if authorizationServer != "" {
		cfg.Enabled = true
		cfg.AuthorizationServers = []string{authorizationServer}
	}
	return cfg
}

// Provider validates request credentials and produces claims. Implementations
// include the JWKS-backed token validator and the reject-all fallback.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// ValidateToken validates a bearer token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (jwt.MapClaims, error)
}
