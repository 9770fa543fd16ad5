// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dedalus-labs/linear-mcp/pkg/logger"
)

// Middleware enforces the authorization config using the given provider.
//
// Requests with valid credentials proceed with their claims in the context.
// Requests that fail validation are rejected with 401, unless the config is
// fail-open, in which case they proceed with anonymous claims. When the
// config disables authorization entirely, every request proceeds with
// anonymous claims.
func Middleware(cfg *Config, provider Provider, resourceURL string) func(http.Handler) http.Handler {
	if cfg == nil || !cfg.Enabled {
		return AnonymousMiddleware
	}

	realm := ""
	if len(cfg.AuthorizationServers) > 0 {
		realm = cfg.AuthorizationServers[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractBearerToken(r)
			if err == nil {
				claims, validateErr := provider.ValidateToken(r.Context(), tokenString)
				if validateErr == nil {
					ctx := WithClaims(r.Context(), claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				err = validateErr
			}

			if cfg.FailOpen {
				logger.Warnw("authorization failed, admitting request (fail-open)",
					"provider", provider.Name(),
					"path", r.URL.Path,
					"error", err.Error())
				ctx := WithClaims(r.Context(), AnonymousClaims())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			w.Header().Set("WWW-Authenticate", buildWWWAuthenticate(realm, resourceURL, err))
			http.Error(w, fmt.Sprintf("Unauthorized: %v", err), http.StatusUnauthorized)
		})
	}
}

// extractBearerToken pulls the bearer token out of the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

// buildWWWAuthenticate builds an RFC 6750 / RFC 9728 compliant value for the
// WWW-Authenticate header. It always includes realm and, if set,
// resource_metadata, plus the error fields from RFC 6750 §3.
func buildWWWAuthenticate(realm, resourceURL string, err error) string {
	var parts []string

	if realm != "" {
		parts = append(parts, fmt.Sprintf(`realm="%s"`, EscapeQuotes(realm)))
	}

	if resourceURL != "" {
		parts = append(parts, fmt.Sprintf(`resource_metadata="%s"`, EscapeQuotes(resourceURL)))
	}

	parts = append(parts, `error="invalid_token"`)
	if err != nil {
		parts = append(parts, fmt.Sprintf(`error_description="%s"`, EscapeQuotes(err.Error())))
	}

	return "Bearer " + strings.Join(parts, ", ")
}

// EscapeQuotes escapes quotes in a string for use in a quoted-string context.
func EscapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
