// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package server

import (
	"github.com/dedalus-labs/linear-mcp/pkg/auth"
	"github.com/dedalus-labs/linear-mcp/pkg/dispatch"
	"github.com/dedalus-labs/linear-mcp/pkg/versions"
)

const (
	// DefaultEndpointPath is the MCP endpoint path.
	DefaultEndpointPath = "/mcp"

	// DefaultPort is the default listen port.
	DefaultPort = 8000
)

// Config describes an MCP server.
type Config struct {
	// Name identifies the server to MCP clients.
	Name string

	// Version is reported to MCP clients. Defaults to the build version.
	Version string

	// Instructions are surfaced to clients during initialization.
	Instructions string

	// Host and Port form the listen address. Port 0 binds a random port.
	Host string
	Port int

	// PublicURL is the externally visible URL of this server, advertised as
	// the resource in OAuth protected-resource metadata. Discovery returns
	// 404 when unset.
	PublicURL string

	// Connections are the upstream APIs this server's tools call. Their
	// presence is what triggers automatic credential-validator setup.
	Connections []dispatch.Connection

	// AuthorizationServer is the URL of the authorization server that issues
	// tokens for this server.
	AuthorizationServer string

	// Authorization is the explicit authorization configuration. When nil, a
	// default is derived from AuthorizationServer. Supplying it controls
	// policy (enforcement, fail-open) only; it does not suppress automatic
	// validator setup.
	Authorization *auth.Config

	// Stateless serves each MCP request without session state. Required for
	// serverless deployments.
	Stateless bool

	// AllowPrivateNetwork permits the authorization server and JWKS endpoint
	// to resolve to private addresses. For local development.
	AllowPrivateNetwork bool

	// AllowPlainHTTP permits a non-HTTPS authorization server. For local
	// development.
	AllowPlainHTTP bool
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "dedalus-mcp"
	}
	if c.Version == "" {
		c.Version = versions.GetVersionInfo().Version
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Authorization == nil {
		c.Authorization = auth.DefaultConfig(c.AuthorizationServer)
	}
}

// validate checks the connection definitions.
func (c *Config) validate() error {
	for i := range c.Connections {
		if err := c.Connections[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// issuer returns the authorization server URL used for automatic validator
// setup: the explicit AuthorizationServer, or the first entry of the
// authorization config's server list.
func (c *Config) issuer() string {
	if c.AuthorizationServer != "" {
		return c.AuthorizationServer
	}
	if c.Authorization != nil && len(c.Authorization.AuthorizationServers) > 0 {
		return c.Authorization.AuthorizationServers[0]
	}
	return ""
}
