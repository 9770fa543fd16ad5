// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dedalus-labs/linear-mcp/pkg/auth"
)

func TestConfigApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "dedalus-mcp", cfg.Name)
	assert.NotEmpty(t, cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.NotNil(t, cfg.Authorization)
	assert.False(t, cfg.Authorization.Enabled)
}

func TestConfigDefaultAuthorizationFollowsServer(t *testing.T) {
	t.Parallel()

	cfg := &Config{AuthorizationServer: testAuthzServer}
	cfg.applyDefaults()

	assert.True(t, cfg.Authorization.Enabled)
	assert.Equal(t, []string{testAuthzServer}, cfg.Authorization.AuthorizationServers)
}

func TestConfigIssuer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "explicit authorization server wins",
			cfg: Config{
				AuthorizationServer: "https://as1.example.com",
				Authorization:       &auth.Config{AuthorizationServers: []string{"https://as2.example.com"}},
			},
			want: "https://as1.example.com",
		},
		{
			name: "falls back to authorization config",
			cfg: Config{
				Authorization: &auth.Config{AuthorizationServers: []string{"https://as2.example.com"}},
			},
			want: "https://as2.example.com",
		},
		{
			name: "empty when nothing configured",
			cfg:  Config{},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.issuer())
		})
	}
}
