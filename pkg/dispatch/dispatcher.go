// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/dedalus-labs/linear-mcp/pkg/logger"
	"github.com/dedalus-labs/linear-mcp/pkg/secrets"
)

const (
	// maxAttempts bounds the total number of tries per dispatched request,
	// including the initial attempt.
	maxAttempts = 4

	// maxResponseSize caps response bodies read into memory (4MB).
	maxResponseSize = 4 * 1024 * 1024
)

// Request is a dispatched request against a connection's base URL.
type Request struct {
	Method string      `json:"method"`
	Path   string      `json:"path"`
	Body   interface{} `json:"body,omitempty"`
}

// Response is the upstream response to a dispatched request.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
	Header http.Header     `json:"-"`
}

// statusError marks a response status as retryable inside the retry loop.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.status)
}

// Dispatcher executes requests against a connection, resolving and injecting
// the connection's bearer token on every attempt.
type Dispatcher struct {
	conn    Connection
	client  *http.Client
	secrets secrets.Provider
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient overrides the HTTP client used for upstream requests.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithSecretsProvider overrides the secrets provider used for credential
// resolution.
func WithSecretsProvider(provider secrets.Provider) Option {
	return func(d *Dispatcher) {
		d.secrets = provider
	}
}

// NewDispatcher creates a dispatcher for the given connection.
func NewDispatcher(conn Connection, opts ...Option) (*Dispatcher, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		conn:    conn,
		client:  &http.Client{Timeout: 30 * time.Second},
		secrets: secrets.NewEnvironmentProvider(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Connection returns the connection this dispatcher routes to.
func (d *Dispatcher) Connection() Connection {
	return d.conn
}

// Dispatch executes the request against the connection's base URL. Rate
// limited and 5xx responses are retried with exponential backoff; any other
// upstream status is returned to the caller as a Response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()

	token, err := d.secrets.GetSecret(d.conn.Secrets.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials for connection %s: %w", d.conn.Name, err)
	}

	var lastResp *Response
	operation := func() (*Response, error) {
		resp, err := d.do(ctx, req, token)
		if err != nil {
			// Transport-level failure, worth retrying.
			return nil, err
		}
		if resp.Status == http.StatusTooManyRequests || resp.Status >= http.StatusInternalServerError {
			lastResp = resp
			return nil, &statusError{status: resp.Status}
		}
		return resp, nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 500 * time.Millisecond
	expBackoff.MaxInterval = 10 * time.Second

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(maxAttempts),
		backoff.WithNotify(func(err error, duration time.Duration) {
			logger.Debugw("retrying dispatch",
				"connection", d.conn.Name,
				"request_id", requestID,
				"error", err.Error(),
				"backoff", duration.String())
		}),
	)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && lastResp != nil {
			// Retries exhausted on a retryable status. Hand the caller the
			// last upstream response so it can surface the real error.
			return lastResp, nil
		}
		return nil, fmt.Errorf("dispatch %s %s for connection %s: %w", req.Method, req.Path, d.conn.Name, err)
	}

	logger.Debugw("dispatched request",
		"connection", d.conn.Name,
		"request_id", requestID,
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status)

	return resp, nil
}

func (d *Dispatcher) do(ctx context.Context, req Request, token string) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	url := strings.TrimSuffix(d.conn.BaseURL, "/") + "/" + strings.TrimPrefix(req.Path, "/")
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Status: httpResp.StatusCode,
		Body:   respBody,
		Header: httpResp.Header,
	}, nil
}
