// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestListIssuesTool(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{"issues": map[string]any{"nodes": []any{map[string]any{
			"id":         "issue-1",
			"identifier": "ENG-123",
			"title":      "Fix login",
		}}}}
	})
	h := &toolHandler{client: client}

	result, err := h.listIssues(context.Background(), toolRequest(map[string]any{
		"team_key": "eng",
		"limit":    5,
	}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	issues, ok := result.StructuredContent.([]Issue)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, "ENG-123", issues[0].Identifier)

	require.Len(t, *calls, 1)
	assert.Equal(t, float64(5), (*calls)[0].Variables["first"])
}

func TestGetIssueToolNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{"issues": map[string]any{"nodes": []any{}}}
	})
	h := &toolHandler{client: client}

	result, err := h.getIssue(context.Background(), toolRequest(map[string]any{
		"identifier": "ENG-999",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "a missing issue is not a tool error")
}

func TestCreateIssueToolReportsAPIErrors(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		// Team resolution finds nothing, so creation fails.
		return map[string]any{"teams": map[string]any{"nodes": []any{}}}
	})
	h := &toolHandler{client: client}

	result, err := h.createIssue(context.Background(), toolRequest(map[string]any{
		"title":    "New issue",
		"team_key": "NOPE",
	}))
	require.NoError(t, err, "tool errors are returned in the result, not as handler errors")
	assert.True(t, result.IsError)
}

func TestUpdateIssueToolPassesClearedFields(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(call gqlCall) any {
		if strings.Contains(call.Query, "issues(filter") {
			return map[string]any{"issues": map[string]any{"nodes": []any{map[string]any{"id": "issue-1"}}}}
		}
		return map[string]any{"issueUpdate": map[string]any{
			"success": true,
			"issue":   map[string]any{"id": "issue-1", "identifier": "ENG-123"},
		}}
	})
	h := &toolHandler{client: client}

	result, err := h.updateIssue(context.Background(), toolRequest(map[string]any{
		"identifier":  "ENG-123",
		"assignee_id": "",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.Len(t, *calls, 2)
	input, ok := (*calls)[1].Variables["input"].(map[string]any)
	require.True(t, ok)
	assignee, present := input["assigneeId"]
	require.True(t, present, "explicit empty string must flow through as a clear")
	assert.Nil(t, assignee)
}

func TestRegisterTools(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any { return map[string]any{} })

	s := mcpserver.NewMCPServer("test", "0.0.0")
	RegisterTools(s, client)
}
