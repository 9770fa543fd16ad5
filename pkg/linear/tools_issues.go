// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func registerIssueTools(s *mcpserver.MCPServer, h *toolHandler) {
	s.AddTool(mcp.Tool{
		Name:        "list_issues",
		Description: "List issues with optional filters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Filter by team key (e.g., 'ENG')",
				},
				"assignee_id": map[string]any{
					"type":        "string",
					"description": "Filter by assignee user ID",
				},
				"state_id": map[string]any{
					"type":        "string",
					"description": "Filter by workflow state ID",
				},
				"project_id": map[string]any{
					"type":        "string",
					"description": "Filter by project ID",
				},
				"cycle_id": map[string]any{
					"type":        "string",
					"description": "Filter by cycle ID",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of issues to return (default 20)",
				},
			},
		},
	}, h.listIssues)

	s.AddTool(mcp.Tool{
		Name:        "get_issue",
		Description: "Get an issue by identifier (e.g., ENG-123)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Issue identifier (e.g., 'ENG-123')",
				},
			},
			Required: []string{"identifier"},
		},
	}, h.getIssue)

	s.AddTool(mcp.Tool{
		Name:        "search_issues",
		Description: "Search issues by text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search text",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of issues to return (default 20)",
				},
			},
			Required: []string{"query"},
		},
	}, h.searchIssues)

	s.AddTool(mcp.Tool{
		Name:        "create_issue",
		Description: "Create a new issue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Issue title",
				},
				"team_key": map[string]any{
					"type":        "string",
					"description": "Team key (e.g., 'ENG')",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Issue description in markdown",
				},
				"priority": map[string]any{
					"type":        "integer",
					"description": "Priority: 0=none, 1=urgent, 2=high, 3=medium, 4=low",
				},
				"estimate": map[string]any{
					"type":        "number",
					"description": "Point estimate",
				},
				"due_date": map[string]any{
					"type":        "string",
					"description": "Due date (YYYY-MM-DD)",
				},
				"assignee_id": map[string]any{
					"type":        "string",
					"description": "Assignee user ID",
				},
				"state_id": map[string]any{
					"type":        "string",
					"description": "Workflow state ID",
				},
				"project_id": map[string]any{
					"type":        "string",
					"description": "Project ID",
				},
				"cycle_id": map[string]any{
					"type":        "string",
					"description": "Cycle ID",
				},
				"label_ids": map[string]any{
					"type":        "array",
					"description": "Label IDs",
					"items": map[string]any{
						"type": "string",
					},
				},
				"parent_id": map[string]any{
					"type":        "string",
					"description": "Parent issue ID",
				},
			},
			Required: []string{"title", "team_key"},
		},
	}, h.createIssue)

	s.AddTool(mcp.Tool{
		Name:        "update_issue",
		Description: "Update an issue. Use empty string to clear optional fields",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Issue identifier (e.g., 'ENG-123')",
				},
				"title": map[string]any{
					"type":        "string",
					"description": "New title",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "New description in markdown",
				},
				"priority": map[string]any{
					"type":        "integer",
					"description": "Priority: 0=none, 1=urgent, 2=high, 3=medium, 4=low",
				},
				"estimate": map[string]any{
					"type":        "number",
					"description": "Point estimate; negative clears the estimate",
				},
				"due_date": map[string]any{
					"type":        "string",
					"description": "Due date (YYYY-MM-DD); empty string clears it",
				},
				"assignee_id": map[string]any{
					"type":        "string",
					"description": "Assignee user ID; empty string unassigns",
				},
				"state_id": map[string]any{
					"type":        "string",
					"description": "Workflow state ID",
				},
				"project_id": map[string]any{
					"type":        "string",
					"description": "Project ID; empty string clears it",
				},
				"cycle_id": map[string]any{
					"type":        "string",
					"description": "Cycle ID; empty string clears it",
				},
				"label_ids": map[string]any{
					"type":        "array",
					"description": "Label IDs; replaces the existing set",
					"items": map[string]any{
						"type": "string",
					},
				},
				"parent_id": map[string]any{
					"type":        "string",
					"description": "Parent issue ID; empty string clears it",
				},
			},
			Required: []string{"identifier"},
		},
	}, h.updateIssue)

	s.AddTool(mcp.Tool{
		Name:        "delete_issue",
		Description: "Delete an issue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Issue identifier (e.g., 'ENG-123')",
				},
			},
			Required: []string{"identifier"},
		},
	}, h.deleteIssue)
}

func (h *toolHandler) listIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey    string `json:"team_key,omitempty"`
		AssigneeID string `json:"assignee_id,omitempty"`
		StateID    string `json:"state_id,omitempty"`
		ProjectID  string `json:"project_id,omitempty"`
		CycleID    string `json:"cycle_id,omitempty"`
		Limit      int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	issues, err := h.client.Issues(ctx, IssueFilter{
		TeamKey:    args.TeamKey,
		AssigneeID: args.AssigneeID,
		StateID:    args.StateID,
		ProjectID:  args.ProjectID,
		CycleID:    args.CycleID,
		Limit:      args.Limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list issues: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(issues), nil
}

func (h *toolHandler) getIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Identifier string `json:"identifier"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	issue, err := h.client.Issue(ctx, args.Identifier)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get issue: %v", err)), nil
	}
	if issue == nil {
		return mcp.NewToolResultText(fmt.Sprintf("Issue %q not found", args.Identifier)), nil
	}
	return mcp.NewToolResultStructuredOnly(issue), nil
}

func (h *toolHandler) searchIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Query string `json:"query"`
		Limit int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	issues, err := h.client.SearchIssues(ctx, args.Query, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search issues: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(issues), nil
}

func (h *toolHandler) createIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Title       string   `json:"title"`
		TeamKey     string   `json:"team_key"`
		Description *string  `json:"description,omitempty"`
		Priority    *int     `json:"priority,omitempty"`
		Estimate    *float64 `json:"estimate,omitempty"`
		DueDate     *string  `json:"due_date,omitempty"`
		AssigneeID  *string  `json:"assignee_id,omitempty"`
		StateID     *string  `json:"state_id,omitempty"`
		ProjectID   *string  `json:"project_id,omitempty"`
		CycleID     *string  `json:"cycle_id,omitempty"`
		LabelIDs    []string `json:"label_ids,omitempty"`
		ParentID    *string  `json:"parent_id,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	params := CreateIssueParams{
		Title:       args.Title,
		TeamKey:     args.TeamKey,
		Description: args.Description,
		Estimate:    args.Estimate,
		DueDate:     args.DueDate,
		AssigneeID:  args.AssigneeID,
		StateID:     args.StateID,
		ProjectID:   args.ProjectID,
		CycleID:     args.CycleID,
		LabelIDs:    args.LabelIDs,
		ParentID:    args.ParentID,
	}
	if args.Priority != nil {
		priority := IssuePriority(*args.Priority)
		params.Priority = &priority
	}

	issue, err := h.client.CreateIssue(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create issue: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(issue), nil
}

func (h *toolHandler) updateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Identifier  string   `json:"identifier"`
		Title       *string  `json:"title,omitempty"`
		Description *string  `json:"description,omitempty"`
		Priority    *int     `json:"priority,omitempty"`
		Estimate    *float64 `json:"estimate,omitempty"`
		DueDate     *string  `json:"due_date,omitempty"`
		AssigneeID  *string  `json:"assignee_id,omitempty"`
		StateID     *string  `json:"state_id,omitempty"`
		ProjectID   *string  `json:"project_id,omitempty"`
		CycleID     *string  `json:"cycle_id,omitempty"`
		LabelIDs    []string `json:"label_ids,omitempty"`
		ParentID    *string  `json:"parent_id,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	params := UpdateIssueParams{
		Title:       args.Title,
		Description: args.Description,
		Estimate:    args.Estimate,
		DueDate:     args.DueDate,
		AssigneeID:  args.AssigneeID,
		StateID:     args.StateID,
		ProjectID:   args.ProjectID,
		CycleID:     args.CycleID,
		LabelIDs:    args.LabelIDs,
		ParentID:    args.ParentID,
	}
	if args.Priority != nil {
		priority := IssuePriority(*args.Priority)
		params.Priority = &priority
	}

	issue, err := h.client.UpdateIssue(ctx, args.Identifier, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update issue: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(issue), nil
}

func (h *toolHandler) deleteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Identifier string `json:"identifier"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	deleted, err := h.client.DeleteIssue(ctx, args.Identifier)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete issue: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"deleted":    deleted,
		"identifier": args.Identifier,
	}), nil
}
