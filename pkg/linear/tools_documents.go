// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func registerDocumentTools(s *mcpserver.MCPServer, h *toolHandler) {
	s.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List documents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"project_id": map[string]any{
					"type":        "string",
					"description": "Filter by project ID",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of documents to return (default 50)",
				},
			},
		},
	}, h.listDocuments)

	s.AddTool(mcp.Tool{
		Name:        "create_document",
		Description: "Create a document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Document title",
				},
				"project_id": map[string]any{
					"type":        "string",
					"description": "Project the document belongs to",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Document content in markdown",
				},
			},
			Required: []string{"title", "project_id"},
		},
	}, h.createDocument)

	s.AddTool(mcp.Tool{
		Name:        "update_document",
		Description: "Update a document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"document_id": map[string]any{
					"type":        "string",
					"description": "Document ID",
				},
				"title": map[string]any{
					"type":        "string",
					"description": "New title",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "New content in markdown",
				},
			},
			Required: []string{"document_id"},
		},
	}, h.updateDocument)

	s.AddTool(mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"document_id": map[string]any{
					"type":        "string",
					"description": "Document ID",
				},
			},
			Required: []string{"document_id"},
		},
	}, h.deleteDocument)

	s.AddTool(mcp.Tool{
		Name:        "list_webhooks",
		Description: "List webhooks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of webhooks to return (default 50)",
				},
			},
		},
	}, h.listWebhooks)

	s.AddTool(mcp.Tool{
		Name:        "create_webhook",
		Description: "Create a webhook. Resource types: Issue, Comment, Project, Cycle, Label, etc.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "Webhook delivery URL",
				},
				"resource_types": map[string]any{
					"type":        "array",
					"description": "Resource types to subscribe to",
					"items": map[string]any{
						"type": "string",
					},
				},
				"team_key": map[string]any{
					"type":        "string",
					"description": "Restrict to a team (e.g., 'ENG'); omit for all teams",
				},
				"label": map[string]any{
					"type":        "string",
					"description": "Webhook label",
				},
			},
			Required: []string{"url", "resource_types"},
		},
	}, h.createWebhook)

	s.AddTool(mcp.Tool{
		Name:        "delete_webhook",
		Description: "Delete a webhook",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"webhook_id": map[string]any{
					"type":        "string",
					"description": "Webhook ID",
				},
			},
			Required: []string{"webhook_id"},
		},
	}, h.deleteWebhook)
}

func (h *toolHandler) listDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id,omitempty"`
		Limit     int    `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	documents, err := h.client.Documents(ctx, args.ProjectID, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list documents: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(documents), nil
}

func (h *toolHandler) createDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Title     string `json:"title"`
		ProjectID string `json:"project_id"`
		Content   string `json:"content,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	document, err := h.client.CreateDocument(ctx, args.Title, args.ProjectID, args.Content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(document), nil
}

func (h *toolHandler) updateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		DocumentID string  `json:"document_id"`
		Title      *string `json:"title,omitempty"`
		Content    *string `json:"content,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	document, err := h.client.UpdateDocument(ctx, args.DocumentID, args.Title, args.Content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update document: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(document), nil
}

func (h *toolHandler) deleteDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		DocumentID string `json:"document_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	deleted, err := h.client.DeleteDocument(ctx, args.DocumentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete document: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"deleted":     deleted,
		"document_id": args.DocumentID,
	}), nil
}

func (h *toolHandler) listWebhooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Limit int `json:"limit,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	webhooks, err := h.client.Webhooks(ctx, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list webhooks: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(webhooks), nil
}

func (h *toolHandler) createWebhook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		URL           string   `json:"url"`
		ResourceTypes []string `json:"resource_types"`
		TeamKey       string   `json:"team_key,omitempty"`
		Label         string   `json:"label,omitempty"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	webhook, err := h.client.CreateWebhook(ctx, args.URL, args.ResourceTypes, args.TeamKey, args.Label)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create webhook: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(webhook), nil
}

func (h *toolHandler) deleteWebhook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		WebhookID string `json:"webhook_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	deleted, err := h.client.DeleteWebhook(ctx, args.WebhookID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete webhook: %v", err)), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"deleted":    deleted,
		"webhook_id": args.WebhookID,
	}), nil
}
