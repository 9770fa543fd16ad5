// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoProviderConfigured is returned by the reject-all provider. Every
// request fails with it until a real validator is installed.
var ErrNoProviderConfigured = errors.New("no authorization provider configured")

// rejectAllProvider is the fallback used when authorization is enabled but no
// validator has been configured. It rejects every request rather than letting
// traffic through unauthenticated.
type rejectAllProvider struct{}

// RejectAll returns the fallback provider that denies all requests.
func RejectAll() Provider {
	return rejectAllProvider{}
}

func (rejectAllProvider) Name() string {
	return "reject-all"
}

func (rejectAllProvider) ValidateToken(_ context.Context, _ string) (jwt.MapClaims, error) {
	return nil, ErrNoProviderConfigured
}
