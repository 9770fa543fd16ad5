// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import "context"

const commentFields = "id body createdAt user { id name }"

type commentNode struct {
	ID        string  `json:"id"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"createdAt"`
	User      *idName `json:"user"`
}

func parseComment(c commentNode) Comment {
	comment := Comment{ID: c.ID, Body: c.Body, CreatedAt: c.CreatedAt}
	if c.User != nil {
		comment.User = c.User.Name
		comment.UserID = c.User.ID
	}
	return comment
}

// Comments lists comments on an issue.
func (c *Client) Comments(ctx context.Context, identifier string, limit int) ([]Comment, error) {
	if limit <= 0 {
		limit = 50
	}

	issueID, err := c.IssueID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var data struct {
		Issue struct {
			Comments struct {
				Nodes []commentNode `json:"nodes"`
			} `json:"comments"`
		} `json:"issue"`
	}
	err = c.gql(ctx,
		"query($id: ID!, $first: Int!) { issue(id: $id) { comments(first: $first) { nodes { "+commentFields+" } } } }",
		map[string]any{"id": issueID, "first": limit}, &data)
	if err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(data.Issue.Comments.Nodes))
	for _, node := range data.Issue.Comments.Nodes {
		comments = append(comments, parseComment(node))
	}
	return comments, nil
}

// CreateComment adds a comment to an issue.
func (c *Client) CreateComment(ctx context.Context, identifier, body string) (*Comment, error) {
	issueID, err := c.IssueID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var data struct {
		CommentCreate struct {
			Success bool        `json:"success"`
			Comment commentNode `json:"comment"`
		} `json:"commentCreate"`
	}
	err = c.gql(ctx,
		"mutation($input: CommentCreateInput!) { commentCreate(input: $input) { success comment { "+commentFields+" } } }",
		map[string]any{"input": map[string]any{"issueId": issueID, "body": body}}, &data)
	if err != nil {
		return nil, err
	}
	if !data.CommentCreate.Success {
		return nil, apiErrorf("failed to create comment")
	}

	comment := parseComment(data.CommentCreate.Comment)
	return &comment, nil
}

// UpdateComment updates a comment's body.
func (c *Client) UpdateComment(ctx context.Context, commentID, body string) (*Comment, error) {
	var data struct {
		CommentUpdate struct {
			Success bool        `json:"success"`
			Comment commentNode `json:"comment"`
		} `json:"commentUpdate"`
	}
	err := c.gql(ctx,
		"mutation($id: ID!, $input: CommentUpdateInput!) { commentUpdate(id: $id, input: $input) { success comment { "+commentFields+" } } }",
		map[string]any{"id": commentID, "input": map[string]any{"body": body}}, &data)
	if err != nil {
		return nil, err
	}
	if !data.CommentUpdate.Success {
		return nil, apiErrorf("failed to update comment")
	}

	comment := parseComment(data.CommentUpdate.Comment)
	return &comment, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	var data struct {
		CommentDelete struct {
			Success bool `json:"success"`
		} `json:"commentDelete"`
	}
	err := c.gql(ctx, "mutation($id: ID!) { commentDelete(id: $id) { success } }",
		map[string]any{"id": commentID}, &data)
	if err != nil {
		return false, err
	}
	return data.CommentDelete.Success, nil
}

// Labels lists labels, optionally filtered by team key.
func (c *Client) Labels(ctx context.Context, teamKey string, limit int) ([]Label, error) {
	if limit <= 0 {
		limit = 100
	}

	var data struct {
		IssueLabels struct {
			Nodes []Label `json:"nodes"`
		} `json:"issueLabels"`
	}

	var err error
	if teamKey != "" {
		var teamID string
		teamID, err = c.TeamID(ctx, teamKey)
		if err != nil {
			return nil, err
		}
		err = c.gql(ctx,
			"query($first: Int!, $teamId: ID!) { issueLabels(first: $first, filter: { team: { id: { eq: $teamId } } }) { nodes { id name color } } }",
			map[string]any{"first": limit, "teamId": teamID}, &data)
	} else {
		err = c.gql(ctx,
			"query($first: Int!) { issueLabels(first: $first) { nodes { id name color } } }",
			map[string]any{"first": limit}, &data)
	}
	if err != nil {
		return nil, err
	}
	return data.IssueLabels.Nodes, nil
}

// CreateLabel creates a label for a team.
func (c *Client) CreateLabel(ctx context.Context, name, teamKey, color string) (*Label, error) {
	teamID, err := c.TeamID(ctx, teamKey)
	if err != nil {
		return nil, err
	}

	input := map[string]any{"name": name, "teamId": teamID}
	if color != "" {
		input["color"] = color
	}

	var data struct {
		IssueLabelCreate struct {
			Success    bool  `json:"success"`
			IssueLabel Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}
	err = c.gql(ctx,
		"mutation($input: IssueLabelCreateInput!) { issueLabelCreate(input: $input) { success issueLabel { id name color } } }",
		map[string]any{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.IssueLabelCreate.Success {
		return nil, apiErrorf("failed to create label")
	}
	return &data.IssueLabelCreate.IssueLabel, nil
}

// DeleteLabel deletes a label.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) (bool, error) {
	var data struct {
		IssueLabelDelete struct {
			Success bool `json:"success"`
		} `json:"issueLabelDelete"`
	}
	err := c.gql(ctx, "mutation($id: ID!) { issueLabelDelete(id: $id) { success } }",
		map[string]any{"id": labelID}, &data)
	if err != nil {
		return false, err
	}
	return data.IssueLabelDelete.Success, nil
}
