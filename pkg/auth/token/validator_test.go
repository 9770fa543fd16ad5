// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package token

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const testKeyID = "test-key-1"

// newTestKeySet generates an RSA key pair and a JWKS containing the public key.
func newTestKeySet(t *testing.T) (*rsa.PrivateKey, jwk.Set) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key pair: %v", err)
	}

	key, err := jwk.Import(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("Failed to create JWK from public key: %v", err)
	}
	if err := key.Set(jwk.KeyIDKey, testKeyID); err != nil {
		t.Fatalf("Failed to set key ID: %v", err)
	}
	if err := key.Set(jwk.AlgorithmKey, "RS256"); err != nil {
		t.Fatalf("Failed to set algorithm: %v", err)
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		t.Fatalf("Failed to set key usage: %v", err)
	}

	keySet := jwk.NewSet()
	if err := keySet.AddKey(key); err != nil {
		t.Fatalf("Failed to add key to set: %v", err)
	}

	return privateKey, keySet
}

// newJWKSServer serves the key set as a JWKS document.
func newJWKSServer(t *testing.T, keySet jwk.Set) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(keySet); err != nil {
			t.Errorf("Failed to encode JWKS: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// signToken signs claims with the test key, keyed by testKeyID.
func signToken(t *testing.T, privateKey *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	signed, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestValidatorValidateToken(t *testing.T) {
	t.Parallel()

	privateKey, keySet := newTestKeySet(t)
	jwksServer := newJWKSServer(t, keySet)

	ctx := context.Background()
	validator, err := NewValidator(ctx, ValidatorConfig{
		Issuer:         "test-issuer",
		Audience:       "test-audience",
		JWKSURL:        jwksServer.URL,
		AllowPrivateIP: true,
		AllowPlainHTTP: true,
	})
	if err != nil {
		t.Fatalf("Failed to create token validator: %v", err)
	}

	testCases := []struct {
		name      string
		claims    jwt.MapClaims
		expectErr bool
		errType   error
	}{
		{
			name: "valid token",
			claims: jwt.MapClaims{
				"iss": "test-issuer",
				"aud": "test-audience",
				"sub": "user-123",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			expectErr: false,
		},
		{
			name: "invalid issuer",
			claims: jwt.MapClaims{
				"iss": "wrong-issuer",
				"aud": "test-audience",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			expectErr: true,
			errType:   ErrInvalidIssuer,
		},
		{
			name: "invalid audience",
			claims: jwt.MapClaims{
				"iss": "test-issuer",
				"aud": "wrong-audience",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			expectErr: true,
			errType:   ErrInvalidAudience,
		},
		{
			name: "expired token",
			claims: jwt.MapClaims{
				"iss": "test-issuer",
				"aud": "test-audience",
				"exp": time.Now().Add(-time.Hour).Unix(),
			},
			expectErr: true,
			errType:   jwt.ErrTokenExpired,
		},
		{
			name: "missing expiration",
			claims: jwt.MapClaims{
				"iss": "test-issuer",
				"aud": "test-audience",
			},
			expectErr: true,
			errType:   ErrTokenExpired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokenString := signToken(t, privateKey, tc.claims)

			claims, err := validator.ValidateToken(ctx, tokenString)
			if !tc.expectErr {
				if err != nil {
					t.Fatalf("Expected no error, got: %v", err)
				}
				if sub, _ := claims.GetSubject(); sub != "user-123" {
					t.Errorf("Expected subject user-123, got %q", sub)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected an error, got none")
			}
			if tc.errType != nil && !errors.Is(err, tc.errType) {
				t.Errorf("Expected error %v, got %v", tc.errType, err)
			}
		})
	}
}

func TestValidatorRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	_, keySet := newTestKeySet(t)
	jwksServer := newJWKSServer(t, keySet)

	ctx := context.Background()
	validator, err := NewValidator(ctx, ValidatorConfig{
		Issuer:         "test-issuer",
		JWKSURL:        jwksServer.URL,
		AllowPrivateIP: true,
		AllowPlainHTTP: true,
	})
	if err != nil {
		t.Fatalf("Failed to create token validator: %v", err)
	}

	// Sign with a key the JWKS has never seen.
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key pair: %v", err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": "test-issuer",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "unknown-key"
	tokenString, err := token.SignedString(otherKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := validator.ValidateToken(ctx, tokenString); err == nil {
		t.Fatal("Expected validation to fail for unknown key ID")
	}
}

func TestValidatorRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, keySet := newTestKeySet(t)
	jwksServer := newJWKSServer(t, keySet)

	ctx := context.Background()
	validator, err := NewValidator(ctx, ValidatorConfig{
		JWKSURL:        jwksServer.URL,
		AllowPrivateIP: true,
		AllowPlainHTTP: true,
	})
	if err != nil {
		t.Fatalf("Failed to create token validator: %v", err)
	}

	if _, err := validator.ValidateToken(ctx, "not-a-jwt"); err == nil {
		t.Fatal("Expected validation to fail for a malformed token")
	}
}

func TestNewValidatorDiscoversJWKSURL(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/.well-known/openid-configuration") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":   server.URL,
			"jwks_uri": server.URL + "/keys",
		})
	}))
	t.Cleanup(server.Close)

	validator, err := NewValidator(context.Background(), ValidatorConfig{
		Issuer:         server.URL,
		AllowPrivateIP: true,
		AllowPlainHTTP: true,
	})
	if err != nil {
		t.Fatalf("Failed to create token validator: %v", err)
	}

	if got := validator.JWKSURL(); got != server.URL+"/keys" {
		t.Errorf("Expected discovered JWKS URL %q, got %q", server.URL+"/keys", got)
	}
	if validator.Name() != "jwt" {
		t.Errorf("Expected provider name jwt, got %q", validator.Name())
	}
}

func TestNewValidatorRequiresIssuerOrJWKSURL(t *testing.T) {
	t.Parallel()

	_, err := NewValidator(context.Background(), ValidatorConfig{})
	if !errors.Is(err, ErrMissingIssuerAndJWKSURL) {
		t.Fatalf("Expected ErrMissingIssuerAndJWKSURL, got %v", err)
	}
}
