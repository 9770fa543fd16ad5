// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func registerProjectTools(s *mcpserver.MCPServer, h *toolHandler) {
	s.AddTool(mcp.Tool{
		Name:        "list_projects",
		Description: "List projects",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Filter by team key (e.g., 'ENG')",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of projects to return (default 50)",
				},
			},
		},
	}, h.listProjects)

	s.AddTool(mcp.Tool{
		Name:        "create_project",
		Description: "Create a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Project name",
				},
				"team_keys": map[string]any{
					"type":        "array",
					"description": "Team keys the project belongs to",
					"items": map[string]any{
						"type": "string",
					},
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Project description",
				},
			},
			Required: []string{"name", "team_keys"},
		},
	}, h.createProject)

	s.AddTool(mcp.Tool{
		Name:        "update_project",
		Description: "Update a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"project_id": map[string]any{
					"type":        "string",
					"description": "Project ID",
				},
				"name": map[string]any{
					"type":        "string",
					"description": "New name",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "New description",
				},
				"state": map[string]any{
					"type":        "string",
					"description": "New state: planned, backlog, started, paused, completed, canceled",
				},
			},
			Required: []string{"project_id"},
		},
	}, h.updateProject)

	s.AddTool(mcp.Tool{
		Name:        "list_cycles",
		Description: "List cycles for a team",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Team key (e.g., 'ENG')",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of cycles to return (default 20)",
				},
			},
			Required: []string{"team_key"},
		},
	}, h.listCycles)

	s.AddTool(mcp.Tool{
		Name:        "create_cycle",
		Description: "Create a cycle. Dates in ISO 8601 format",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Team key (e.g., 'ENG')",
				},
				"starts_at": map[string]any{
					"type":        "string",
					"description": "Start date (ISO 8601)",
				},
				"ends_at": map[string]any{
					"type":        "string",
					"description": "End date (ISO 8601)",
				},
				"name": map[string]any{
					"type":        "string",
					"description": "Cycle name",
				},
			},
			Required: []string{"team_key", "starts_at", "ends_at"},
		},
	}, h.createCycle)
}

func (h *toolHandler) listProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey string `json:"team_key,omitempty"`
		Limit   int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	projects, err := h.client.Projects(ctx, args.TeamKey, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list projects: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(projects), nil
}

func (h *toolHandler) createProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Name        string   `json:"name"`
		TeamKeys    []string `json:"team_keys"`
		Description string   `json:"description,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	project, err := h.client.CreateProject(ctx, args.Name, args.TeamKeys, args.Description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(project), nil
}

func (h *toolHandler) updateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID   string  `json:"project_id"`
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		State       *string `json:"state,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	project, err := h.client.UpdateProject(ctx, args.ProjectID, UpdateProjectParams{
		Name:        args.Name,
		Description: args.Description,
		State:       args.State,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update project: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(project), nil
}

func (h *toolHandler) listCycles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey string `json:"team_key"`
		Limit   int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	cycles, err := h.client.Cycles(ctx, args.TeamKey, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list cycles: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(cycles), nil
}

func (h *toolHandler) createCycle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey  string `json:"team_key"`
		StartsAt string `json:"starts_at"`
		EndsAt   string `json:"ends_at"`
		Name     string `json:"name,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	cycle, err := h.client.CreateCycle(ctx, args.TeamKey, args.StartsAt, args.EndsAt, args.Name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create cycle: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(cycle), nil
}
