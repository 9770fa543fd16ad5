// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dedalus-labs/linear-mcp/pkg/auth"
	"github.com/dedalus-labs/linear-mcp/pkg/auth/token"
	"github.com/dedalus-labs/linear-mcp/pkg/logger"
)

// AuthorizationManager owns the server's authorization policy and the
// provider that validates credentials. When authorization is enabled and no
// provider has been installed, the reject-all fallback is used so traffic is
// never admitted unauthenticated by omission.
type AuthorizationManager struct {
	config *auth.Config

	mu       sync.RWMutex
	provider auth.Provider
}

// NewAuthorizationManager creates a manager for the given policy with no
// provider installed.
func NewAuthorizationManager(cfg *auth.Config) *AuthorizationManager {
	return &AuthorizationManager{config: cfg}
}

// Config returns the authorization policy.
func (m *AuthorizationManager) Config() *auth.Config {
	return m.config
}

// SetProvider installs the provider that validates credentials. It replaces
// any previously installed provider, including the automatically configured
// one, so callers can override validator construction entirely.
func (m *AuthorizationManager) SetProvider(p auth.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = p
}

// Provider returns the installed provider, or the reject-all fallback if
// none is installed.
func (m *AuthorizationManager) Provider() auth.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.provider == nil {
		return auth.RejectAll()
	}
	return m.provider
}

// JWKSURL returns the JWKS URL of the installed provider, if it exposes one.
func (m *AuthorizationManager) JWKSURL() string {
	if v, ok := m.Provider().(*token.Validator); ok {
		return v.JWKSURL()
	}
	return ""
}

// Middleware returns the HTTP middleware enforcing the manager's policy.
// The provider is consulted per request, so a provider installed after the
// middleware was built is still honored.
func (m *AuthorizationManager) Middleware(resourceURL string) func(http.Handler) http.Handler {
	return auth.Middleware(m.config, managerProvider{m}, resourceURL)
}

// managerProvider delegates to the manager's current provider.
type managerProvider struct {
	m *AuthorizationManager
}

func (p managerProvider) Name() string {
	return p.m.Provider().Name()
}

func (p managerProvider) ValidateToken(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	return p.m.Provider().ValidateToken(ctx, tokenString)
}

// logPolicy records the effective authorization posture at startup.
func (m *AuthorizationManager) logPolicy() {
	cfg := m.config
	if cfg == nil || !cfg.Enabled {
		logger.Info("Authorization disabled, requests proceed with anonymous claims")
		return
	}

	provider := m.Provider()
	logger.Infow("Authorization enabled",
		"provider", provider.Name(),
		"fail_open", cfg.FailOpen)

	if provider.Name() == auth.RejectAll().Name() && !cfg.FailOpen {
		logger.Warn("No credential validator configured, all requests will be rejected")
	}
}
