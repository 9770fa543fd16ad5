// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonymousClaims returns the claims attached to requests that were not
// authenticated: requests admitted by fail-open, and all requests when
// authorization is disabled.
func AnonymousClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  "anonymous",
		"iss":  "dedalus-local",
		"aud":  "dedalus-mcp",
		"exp":  now.Add(24 * time.Hour).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"name": "Anonymous User",
	}
}

// AnonymousMiddleware creates an HTTP middleware that sets up anonymous
// claims. Used when authorization is disabled so downstream handlers can
// still read claims from the context. This is heavily discouraged in
// production settings but is handy for testing and local development.
func AnonymousMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClaims(r.Context(), AnonymousClaims())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
