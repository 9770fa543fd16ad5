// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsContextKey is the key used to store claims in the request context.
//
// Using an empty struct as the key prevents collisions with other context
// keys, as each empty struct type is distinct even if they have the same name
// in different packages.
type ClaimsContextKey struct{}

// WithClaims stores claims in the context. Called by the authorization
// middleware after successful validation so tool handlers can see who is
// calling.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, ClaimsContextKey{}, claims)
}

// GetClaimsFromContext retrieves the claims from the request context.
//
// Returns the claims and a boolean indicating whether claims were found.
func GetClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(ClaimsContextKey{}).(jwt.MapClaims)
	return claims, ok
}
