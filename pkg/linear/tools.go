// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// toolHandler handles MCP tool requests against the Linear API.
type toolHandler struct {
	client *Client
}

// RegisterTools registers the full Linear tool surface on an MCP server.
func RegisterTools(s *mcpserver.MCPServer, c *Client) {
	h := &toolHandler{client: c}

	registerUserTools(s, h)
	registerIssueTools(s, h)
	registerProjectTools(s, h)
	registerCommentTools(s, h)
	registerDocumentTools(s, h)
}

func registerUserTools(s *mcpserver.MCPServer, h *toolHandler) {
	s.AddTool(mcp.Tool{
		Name:        "get_me",
		Description: "Get the authenticated user",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, h.getMe)

	s.AddTool(mcp.Tool{
		Name:        "list_users",
		Description: "List users in the organization",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of users to return (default 50)",
				},
			},
		},
	}, h.listUsers)

	s.AddTool(mcp.Tool{
		Name:        "list_teams",
		Description: "List teams",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, h.listTeams)

	s.AddTool(mcp.Tool{
		Name:        "list_workflow_states",
		Description: "List workflow states for a team",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Team key (e.g., 'ENG')",
				},
			},
			Required: []string{"team_key"},
		},
	}, h.listWorkflowStates)
}

func (h *toolHandler) getMe(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := h.client.Me(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get authenticated user: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(user), nil
}

func (h *toolHandler) listUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Limit int `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	users, err := h.client.Users(ctx, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list users: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(users), nil
}

func (h *toolHandler) listTeams(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	teams, err := h.client.Teams(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list teams: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(teams), nil
}

func (h *toolHandler) listWorkflowStates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey string `json:"team_key"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	states, err := h.client.WorkflowStates(ctx, args.TeamKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list workflow states: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(states), nil
}
