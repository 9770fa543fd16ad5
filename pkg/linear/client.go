// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package linear is a client for the Linear GraphQL API, routed through a
// connection dispatcher so credentials are injected per request.
//
// Ref: https://developers.linear.app/docs/graphql/working-with-the-graphql-api
package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dedalus-labs/linear-mcp/pkg/dispatch"
)

// APIBase is the root URL of the Linear API.
const APIBase = "https://api.linear.app"

// DefaultConnection returns the connection definition for the Linear API,
// with the bearer token taken from the LINEAR_TOKEN secret.
func DefaultConnection() dispatch.Connection {
	return dispatch.Connection{
		Name:    "linear",
		BaseURL: APIBase,
		Secrets: dispatch.SecretKeys{Token: "LINEAR_TOKEN"},
	}
}

// APIError is an error from the Linear API.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func apiErrorf(format string, args ...any) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...)}
}

// Client executes GraphQL operations against the Linear API.
type Client struct {
	dispatcher *dispatch.Dispatcher
}

// NewClient creates a Linear client over the given dispatcher.
func NewClient(dispatcher *dispatch.Dispatcher) *Client {
	return &Client{dispatcher: dispatcher}
}

// graphqlResponse is the standard GraphQL response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// gql executes a GraphQL request and decodes the data field into out.
func (c *Client) gql(ctx context.Context, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}

	resp, err := c.dispatcher.Dispatch(ctx, dispatch.Request{
		Method: http.MethodPost,
		Path:   "/graphql",
		Body:   map[string]any{"query": query, "variables": variables},
	})
	if err != nil {
		return apiErrorf("dispatch error: %v", err)
	}

	if resp.Status >= http.StatusBadRequest {
		return apiErrorf("API error (%d): %s", resp.Status, truncate(string(resp.Body), 512))
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return apiErrorf("malformed API response: %v", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return apiErrorf("GraphQL error: %s", strings.Join(messages, "; "))
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return apiErrorf("malformed API response data: %v", err)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// TeamID resolves a team key (e.g. "ENG") to the team's ID.
func (c *Client) TeamID(ctx context.Context, teamKey string) (string, error) {
	var data struct {
		Teams struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"teams"`
	}

	err := c.gql(ctx,
		"query($key: String!) { teams(filter: { key: { eq: $key } }) { nodes { id } } }",
		map[string]any{"key": strings.ToUpper(teamKey)}, &data)
	if err != nil {
		return "", err
	}

	if len(data.Teams.Nodes) == 0 {
		return "", apiErrorf("team %q not found", teamKey)
	}
	return data.Teams.Nodes[0].ID, nil
}

// IssueID resolves an issue identifier (e.g. "ENG-123") to the issue's ID.
func (c *Client) IssueID(ctx context.Context, identifier string) (string, error) {
	var data struct {
		Issues struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"issues"`
	}

	err := c.gql(ctx,
		"query($id: String!) { issues(filter: { identifier: { eq: $id } }, first: 1) { nodes { id } } }",
		map[string]any{"id": strings.ToUpper(identifier)}, &data)
	if err != nil {
		return "", err
	}

	if len(data.Issues.Nodes) == 0 {
		return "", apiErrorf("issue %q not found", identifier)
	}
	return data.Issues.Nodes[0].ID, nil
}
