// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func registerCommentTools(s *mcpserver.MCPServer, h *toolHandler) {
	s.AddTool(mcp.Tool{
		Name:        "list_comments",
		Description: "List comments on an issue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Issue identifier (e.g., 'ENG-123')",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of comments to return (default 50)",
				},
			},
			Required: []string{"identifier"},
		},
	}, h.listComments)

	s.AddTool(mcp.Tool{
		Name:        "create_comment",
		Description: "Create a comment on an issue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"identifier": map[string]any{
					"type":        "string",
					"description": "Issue identifier (e.g., 'ENG-123')",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "Comment body in markdown",
				},
			},
			Required: []string{"identifier", "body"},
		},
	}, h.createComment)

	s.AddTool(mcp.Tool{
		Name:        "update_comment",
		Description: "Update a comment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"comment_id": map[string]any{
					"type":        "string",
					"description": "Comment ID",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "New comment body in markdown",
				},
			},
			Required: []string{"comment_id", "body"},
		},
	}, h.updateComment)

	s.AddTool(mcp.Tool{
		Name:        "delete_comment",
		Description: "Delete a comment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"comment_id": map[string]any{
					"type":        "string",
					"description": "Comment ID",
				},
			},
			Required: []string{"comment_id"},
		},
	}, h.deleteComment)

	s.AddTool(mcp.Tool{
		Name:        "list_labels",
		Description: "List labels",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"team_key": map[string]any{
					"type":        "string",
					"description": "Filter by team key (e.g., 'ENG')",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of labels to return (default 100)",
				},
			},
		},
	}, h.listLabels)

	s.AddTool(mcp.Tool{
		Name:        "create_label",
		Description: "Create a label",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Label name",
				},
				"team_key": map[string]any{
					"type":        "string",
					"description": "Team key (e.g., 'ENG')",
				},
				"color": map[string]any{
					"type":        "string",
					"description": "Label color (hex, e.g., '#FF0000')",
				},
			},
			Required: []string{"name", "team_key"},
		},
	}, h.createLabel)

	s.AddTool(mcp.Tool{
		Name:        "delete_label",
		Description: "Delete a label",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"label_id": map[string]any{
					"type":        "string",
					"description": "Label ID",
				},
			},
			Required: []string{"label_id"},
		},
	}, h.deleteLabel)
}

func (h *toolHandler) listComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Identifier string `json:"identifier"`
		Limit      int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	comments, err := h.client.Comments(ctx, args.Identifier, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list comments: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(comments), nil
}

func (h *toolHandler) createComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Identifier string `json:"identifier"`
		Body       string `json:"body"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	comment, err := h.client.CreateComment(ctx, args.Identifier, args.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create comment: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(comment), nil
}

func (h *toolHandler) updateComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		CommentID string `json:"comment_id"`
		Body      string `json:"body"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	comment, err := h.client.UpdateComment(ctx, args.CommentID, args.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update comment: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(comment), nil
}

func (h *toolHandler) deleteComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		CommentID string `json:"comment_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	deleted, err := h.client.DeleteComment(ctx, args.CommentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete comment: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"deleted":    deleted,
		"comment_id": args.CommentID,
	}), nil
}

func (h *toolHandler) listLabels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		TeamKey string `json:"team_key,omitempty"`
		Limit   int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	labels, err := h.client.Labels(ctx, args.TeamKey, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(labels), nil
}

func (h *toolHandler) createLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Name    string `json:"name"`
		TeamKey string `json:"team_key"`
		Color   string `json:"color,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	label, err := h.client.CreateLabel(ctx, args.Name, args.TeamKey, args.Color)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create label: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(label), nil
}

func (h *toolHandler) deleteLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		LabelID string `json:"label_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	deleted, err := h.client.DeleteLabel(ctx, args.LabelID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete label: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"deleted":  deleted,
		"label_id": args.LabelID,
	}), nil
}
