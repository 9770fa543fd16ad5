// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSecrets map[string]string

func (s staticSecrets) GetSecret(name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", assert.AnError
	}
	return value, nil
}

func testConnection(baseURL string) Connection {
	return Connection{
		Name:    "linear",
		BaseURL: baseURL,
		Secrets: SecretKeys{Token: "LINEAR_TOKEN"},
	}
}

func TestConnectionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		conn      Connection
		expectErr string
	}{
		{
			name: "valid",
			conn: Connection{Name: "linear", BaseURL: "https://api.linear.app", Secrets: SecretKeys{Token: "LINEAR_TOKEN"}},
		},
		{
			name:      "missing name",
			conn:      Connection{BaseURL: "https://api.linear.app", Secrets: SecretKeys{Token: "LINEAR_TOKEN"}},
			expectErr: "name cannot be empty",
		},
		{
			name:      "missing base URL",
			conn:      Connection{Name: "linear", Secrets: SecretKeys{Token: "LINEAR_TOKEN"}},
			expectErr: "base URL cannot be empty",
		},
		{
			name:      "malformed base URL",
			conn:      Connection{Name: "linear", BaseURL: "::/bad", Secrets: SecretKeys{Token: "LINEAR_TOKEN"}},
			expectErr: "invalid base URL",
		},
		{
			name:      "missing token secret",
			conn:      Connection{Name: "linear", BaseURL: "https://api.linear.app"},
			expectErr: "token secret name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.conn.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.expectErr)
			}
		})
	}
}

func TestDispatchInjectsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	d, err := NewDispatcher(testConnection(server.URL),
		WithSecretsProvider(staticSecrets{"LINEAR_TOKEN": "lin_api_token"}),
	)
	require.NoError(t, err)

	resp, err := d.Dispatch(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/graphql",
		Body:   map[string]any{"query": "{ viewer { id } }"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Bearer lin_api_token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestDispatchRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	d, err := NewDispatcher(testConnection(server.URL),
		WithSecretsProvider(staticSecrets{"LINEAR_TOKEN": "token"}),
	)
	require.NoError(t, err)

	resp, err := d.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatchReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	t.Cleanup(server.Close)

	d, err := NewDispatcher(testConnection(server.URL),
		WithSecretsProvider(staticSecrets{"LINEAR_TOKEN": "token"}),
	)
	require.NoError(t, err)

	resp, err := d.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/graphql"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestDispatchDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"malformed query"}]}`))
	}))
	t.Cleanup(server.Close)

	d, err := NewDispatcher(testConnection(server.URL),
		WithSecretsProvider(staticSecrets{"LINEAR_TOKEN": "token"}),
	)
	require.NoError(t, err)

	resp, err := d.Dispatch(context.Background(), Request{Method: http.MethodPost, Path: "/graphql"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, int32(1), calls.Load())

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Contains(t, body, "errors")
}

func TestDispatchFailsWhenSecretMissing(t *testing.T) {
	t.Parallel()

	d, err := NewDispatcher(testConnection("https://api.linear.app"),
		WithSecretsProvider(staticSecrets{}),
	)
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), Request{Method: http.MethodGet, Path: "/graphql"})
	assert.ErrorContains(t, err, "failed to resolve credentials")
}
