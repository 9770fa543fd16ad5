// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import "context"

const documentFields = "id title content url project { id }"

type documentNode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Project *struct {
		ID string `json:"id"`
	} `json:"project"`
}

func parseDocument(d documentNode) Document {
	doc := Document{ID: d.ID, Title: d.Title, Content: d.Content, URL: d.URL}
	if d.Project != nil {
		doc.ProjectID = d.Project.ID
	}
	return doc
}

// Documents lists documents, optionally filtered by project.
func (c *Client) Documents(ctx context.Context, projectID string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}

	var data struct {
		Documents struct {
			Nodes []documentNode `json:"nodes"`
		} `json:"documents"`
	}

	var err error
	if projectID != "" {
		err = c.gql(ctx,
			"query($first: Int!, $projectId: ID!) { documents(first: $first, filter: { project: { id: { eq: $projectId } } }) { nodes { "+documentFields+" } } }",
			map[string]any{"first": limit, "projectId": projectID}, &data)
	} else {
		err = c.gql(ctx,
			"query($first: Int!) { documents(first: $first) { nodes { "+documentFields+" } } }",
			map[string]any{"first": limit}, &data)
	}
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(data.Documents.Nodes))
	for _, node := range data.Documents.Nodes {
		docs = append(docs, parseDocument(node))
	}
	return docs, nil
}

// CreateDocument creates a document in a project.
func (c *Client) CreateDocument(ctx context.Context, title, projectID, content string) (*Document, error) {
	input := map[string]any{"title": title, "projectId": projectID}
	if content != "" {
		input["content"] = content
	}

	var data struct {
		DocumentCreate struct {
			Success  bool         `json:"success"`
			Document documentNode `json:"document"`
		} `json:"documentCreate"`
	}
	err := c.gql(ctx,
		"mutation($input: DocumentCreateInput!) { documentCreate(input: $input) { success document { "+documentFields+" } } }",
		map[string]any{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.DocumentCreate.Success {
		return nil, apiErrorf("failed to create document")
	}

	doc := parseDocument(data.DocumentCreate.Document)
	return &doc, nil
}

// UpdateDocument updates a document's title and/or content.
func (c *Client) UpdateDocument(ctx context.Context, documentID string, title, content *string) (*Document, error) {
	input := map[string]any{}
	if title != nil {
		input["title"] = *title
	}
	if content != nil {
		input["content"] = *content
	}

	if len(input) == 0 {
		return nil, apiErrorf("no fields to update")
	}

	var data struct {
		DocumentUpdate struct {
			Success  bool         `json:"success"`
			Document documentNode `json:"document"`
		} `json:"documentUpdate"`
	}
	err := c.gql(ctx,
		"mutation($id: ID!, $input: DocumentUpdateInput!) { documentUpdate(id: $id, input: $input) { success document { "+documentFields+" } } }",
		map[string]any{"id": documentID, "input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.DocumentUpdate.Success {
		return nil, apiErrorf("failed to update document")
	}

	doc := parseDocument(data.DocumentUpdate.Document)
	return &doc, nil
}

// DeleteDocument deletes a document.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	var data struct {
		DocumentDelete struct {
			Success bool `json:"success"`
		} `json:"documentDelete"`
	}
	err := c.gql(ctx, "mutation($id: ID!) { documentDelete(id: $id) { success } }",
		map[string]any{"id": documentID}, &data)
	if err != nil {
		return false, err
	}
	return data.DocumentDelete.Success, nil
}

const webhookFields = "id label url enabled resourceTypes"

type webhookNode struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	URL           string   `json:"url"`
	Enabled       *bool    `json:"enabled"`
	ResourceTypes []string `json:"resourceTypes"`
}

func parseWebhook(w webhookNode) Webhook {
	enabled := true
	if w.Enabled != nil {
		enabled = *w.Enabled
	}
	resourceTypes := w.ResourceTypes
	if resourceTypes == nil {
		resourceTypes = []string{}
	}
	return Webhook{ID: w.ID, Label: w.Label, URL: w.URL, Enabled: enabled, ResourceTypes: resourceTypes}
}

// Webhooks lists webhook subscriptions.
func (c *Client) Webhooks(ctx context.Context, limit int) ([]Webhook, error) {
	if limit <= 0 {
		limit = 50
	}

	var data struct {
		Webhooks struct {
			Nodes []webhookNode `json:"nodes"`
		} `json:"webhooks"`
	}
	err := c.gql(ctx,
		"query($first: Int!) { webhooks(first: $first) { nodes { "+webhookFields+" } } }",
		map[string]any{"first": limit}, &data)
	if err != nil {
		return nil, err
	}

	webhooks := make([]Webhook, 0, len(data.Webhooks.Nodes))
	for _, node := range data.Webhooks.Nodes {
		webhooks = append(webhooks, parseWebhook(node))
	}
	return webhooks, nil
}

// CreateWebhook creates a webhook subscription. Resource types: Issue,
// Comment, Project, Cycle, Label, etc.
func (c *Client) CreateWebhook(ctx context.Context, url string, resourceTypes []string, teamKey, label string) (*Webhook, error) {
	input := map[string]any{"url": url, "resourceTypes": resourceTypes}
	if teamKey != "" {
		teamID, err := c.TeamID(ctx, teamKey)
		if err != nil {
			return nil, err
		}
		input["teamId"] = teamID
	}
	if label != "" {
		input["label"] = label
	}

	var data struct {
		WebhookCreate struct {
			Success bool        `json:"success"`
			Webhook webhookNode `json:"webhook"`
		} `json:"webhookCreate"`
	}
	err := c.gql(ctx,
		"mutation($input: WebhookCreateInput!) { webhookCreate(input: $input) { success webhook { "+webhookFields+" } } }",
		map[string]any{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.WebhookCreate.Success {
		return nil, apiErrorf("failed to create webhook")
	}

	webhook := parseWebhook(data.WebhookCreate.Webhook)
	return &webhook, nil
}

// DeleteWebhook deletes a webhook subscription.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) (bool, error) {
	var data struct {
		WebhookDelete struct {
			Success bool `json:"success"`
		} `json:"webhookDelete"`
	}
	err := c.gql(ctx, "mutation($id: ID!) { webhookDelete(id: $id) { success } }",
		map[string]any{"id": webhookID}, &data)
	if err != nil {
		return false, err
	}
	return data.WebhookDelete.Success, nil
}
