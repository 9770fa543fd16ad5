// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package dispatch routes outgoing API requests through connection
// definitions, injecting the connection's credentials into each request.
package dispatch

import (
	"fmt"
	"net/url"
)

// SecretKeys names the secrets a connection needs, by the environment
// variable that holds each one.
type SecretKeys struct {
	// Token is the name of the secret holding the bearer token.
	Token string `json:"token"`
}

// Connection defines an upstream API that tools talk to. The credentials
// named in Secrets are resolved at request time, so rotated tokens are
// picked up without a restart.
type Connection struct {
	// Name identifies the connection (e.g. "linear").
	Name string `json:"name"`

	// BaseURL is the root URL of the upstream API.
	BaseURL string `json:"base_url"`

	// Secrets names the credentials for this connection.
	Secrets SecretKeys `json:"secrets"`
}

// Validate checks that the connection definition is usable.
func (c *Connection) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("connection name cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("connection %s: base URL cannot be empty", c.Name)
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("connection %s: invalid base URL %q", c.Name, c.BaseURL)
	}
	if c.Secrets.Token == "" {
		return fmt.Errorf("connection %s: token secret name cannot be empty", c.Name)
	}
	return nil
}
