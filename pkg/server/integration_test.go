// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oauth2-proxy/mockoidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedalus-labs/linear-mcp/pkg/dispatch"
)

// TestAutoValidatorAgainstAuthorizationServer runs a mock authorization
// server and checks the full path: connections trigger automatic validator
// setup, the JWKS is fetched from <issuer>/.well-known/jwks.json, and a
// token signed by the authorization server is accepted.
func TestAutoValidatorAgainstAuthorizationServer(t *testing.T) {
	t.Parallel()

	m, err := mockoidc.Run()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown() })

	srv, err := New(context.Background(), &Config{
		Connections:         []dispatch.Connection{testConnection()},
		AuthorizationServer: m.Issuer(),
		AllowPrivateNetwork: true,
		AllowPlainHTTP:      true,
	})
	require.NoError(t, err)
	require.Equal(t, "jwt", srv.AuthorizationManager().Provider().Name())
	require.Equal(t, m.Issuer()+"/.well-known/jwks.json", srv.AuthorizationManager().JWKSURL())

	handler := srv.Handler()

	tokenString, err := m.Keypair.SignJWT(jwt.MapClaims{
		"iss": m.Issuer(),
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	t.Run("accepts token issued by the authorization server", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects token with wrong issuer", func(t *testing.T) {
		wrongIssuer, err := m.Keypair.SignJWT(jwt.MapClaims{
			"iss": "https://other-issuer.example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer "+wrongIssuer)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
