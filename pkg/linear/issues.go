// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"fmt"
	"strings"
)

// issueFields is the field selection shared by all issue queries.
const issueFields = `
    id identifier title description url priority estimate dueDate createdAt updatedAt
    state { id name }
    assignee { id name }
    project { id name }
    cycle { id }
    parent { id }
    labels { nodes { id name } }
`

type idName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type issueNode struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Priority    int     `json:"priority"`
	Estimate    float64 `json:"estimate"`
	DueDate     string  `json:"dueDate"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	State       *idName `json:"state"`
	Assignee    *idName `json:"assignee"`
	Project     *idName `json:"project"`
	Cycle       *struct {
		ID string `json:"id"`
	} `json:"cycle"`
	Parent *struct {
		ID string `json:"id"`
	} `json:"parent"`
	Labels struct {
		Nodes []idName `json:"nodes"`
	} `json:"labels"`
}

func parseIssue(i issueNode) Issue {
	issue := Issue{
		ID:          i.ID,
		Identifier:  i.Identifier,
		Title:       i.Title,
		Description: i.Description,
		Priority:    i.Priority,
		Estimate:    i.Estimate,
		DueDate:     i.DueDate,
		URL:         i.URL,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		Labels:      []string{},
		LabelIDs:    []string{},
	}
	if i.State != nil {
		issue.State = i.State.Name
		issue.StateID = i.State.ID
	}
	if i.Assignee != nil {
		issue.Assignee = i.Assignee.Name
		issue.AssigneeID = i.Assignee.ID
	}
	if i.Project != nil {
		issue.Project = i.Project.Name
		issue.ProjectID = i.Project.ID
	}
	if i.Cycle != nil {
		issue.CycleID = i.Cycle.ID
	}
	if i.Parent != nil {
		issue.ParentID = i.Parent.ID
	}
	for _, label := range i.Labels.Nodes {
		issue.Labels = append(issue.Labels, label.Name)
		issue.LabelIDs = append(issue.LabelIDs, label.ID)
	}
	return issue
}

// IssueFilter holds the optional filters for listing issues.
type IssueFilter struct {
	TeamKey    string
	AssigneeID string
	StateID    string
	ProjectID  string
	CycleID    string
	Limit      int
}

// Issues lists issues matching the filter.
func (c *Client) Issues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	varDecls := []string{"$first: Int!"}
	var filters []string
	variables := map[string]any{"first": limit}

	if filter.TeamKey != "" {
		varDecls = append(varDecls, "$teamKey: String!")
		filters = append(filters, "team: { key: { eq: $teamKey } }")
		variables["teamKey"] = strings.ToUpper(filter.TeamKey)
	}
	if filter.AssigneeID != "" {
		varDecls = append(varDecls, "$assigneeId: ID!")
		filters = append(filters, "assignee: { id: { eq: $assigneeId } }")
		variables["assigneeId"] = filter.AssigneeID
	}
	if filter.StateID != "" {
		varDecls = append(varDecls, "$stateId: ID!")
		filters = append(filters, "state: { id: { eq: $stateId } }")
		variables["stateId"] = filter.StateID
	}
	if filter.ProjectID != "" {
		varDecls = append(varDecls, "$projectId: ID!")
		filters = append(filters, "project: { id: { eq: $projectId } }")
		variables["projectId"] = filter.ProjectID
	}
	if filter.CycleID != "" {
		varDecls = append(varDecls, "$cycleId: ID!")
		filters = append(filters, "cycle: { id: { eq: $cycleId } }")
		variables["cycleId"] = filter.CycleID
	}

	filterStr := ""
	if len(filters) > 0 {
		filterStr = fmt.Sprintf("filter: { %s }", strings.Join(filters, ", "))
	}

	query := fmt.Sprintf(
		"query(%s) { issues(first: $first, %s) { nodes { %s } } }",
		strings.Join(varDecls, ", "), filterStr, issueFields)

	var data struct {
		Issues struct {
			Nodes []issueNode `json:"nodes"`
		} `json:"issues"`
	}
	if err := c.gql(ctx, query, variables, &data); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(data.Issues.Nodes))
	for _, i := range data.Issues.Nodes {
		issues = append(issues, parseIssue(i))
	}
	return issues, nil
}

// Issue fetches a single issue by identifier (e.g. "ENG-123"). Returns nil
// when no issue matches.
func (c *Client) Issue(ctx context.Context, identifier string) (*Issue, error) {
	query := fmt.Sprintf(
		"query($id: String!) { issues(filter: { identifier: { eq: $id } }, first: 1) { nodes { %s } } }",
		issueFields)

	var data struct {
		Issues struct {
			Nodes []issueNode `json:"nodes"`
		} `json:"issues"`
	}
	err := c.gql(ctx, query, map[string]any{"id": strings.ToUpper(identifier)}, &data)
	if err != nil {
		return nil, err
	}

	if len(data.Issues.Nodes) == 0 {
		return nil, nil
	}
	issue := parseIssue(data.Issues.Nodes[0])
	return &issue, nil
}

// SearchIssues runs a full-text search over issues.
func (c *Client) SearchIssues(ctx context.Context, query string, limit int) ([]Issue, error) {
	if limit <= 0 {
		limit = 20
	}

	gqlQuery := fmt.Sprintf(
		"query($q: String!, $first: Int!) { issueSearch(query: $q, first: $first) { nodes { %s } } }",
		issueFields)

	var data struct {
		IssueSearch struct {
			Nodes []issueNode `json:"nodes"`
		} `json:"issueSearch"`
	}
	err := c.gql(ctx, gqlQuery, map[string]any{"q": query, "first": limit}, &data)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(data.IssueSearch.Nodes))
	for _, i := range data.IssueSearch.Nodes {
		issues = append(issues, parseIssue(i))
	}
	return issues, nil
}

// CreateIssueParams are the fields for creating an issue. Optional fields
// are pointers so absent and zero values can be told apart.
type CreateIssueParams struct {
	Title       string
	TeamKey     string
	Description *string
	Priority    *IssuePriority
	Estimate    *float64
	DueDate     *string
	AssigneeID  *string
	StateID     *string
	ProjectID   *string
	CycleID     *string
	LabelIDs    []string
	ParentID    *string
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, params CreateIssueParams) (*Issue, error) {
	teamID, err := c.TeamID(ctx, params.TeamKey)
	if err != nil {
		return nil, err
	}

	input := map[string]any{"title": params.Title, "teamId": teamID}
	if params.Description != nil && *params.Description != "" {
		input["description"] = *params.Description
	}
	if params.Priority != nil {
		input["priority"] = int(*params.Priority)
	}
	if params.Estimate != nil {
		input["estimate"] = *params.Estimate
	}
	if params.DueDate != nil && *params.DueDate != "" {
		input["dueDate"] = *params.DueDate
	}
	if params.AssigneeID != nil && *params.AssigneeID != "" {
		input["assigneeId"] = *params.AssigneeID
	}
	if params.StateID != nil && *params.StateID != "" {
		input["stateId"] = *params.StateID
	}
	if params.ProjectID != nil && *params.ProjectID != "" {
		input["projectId"] = *params.ProjectID
	}
	if params.CycleID != nil && *params.CycleID != "" {
		input["cycleId"] = *params.CycleID
	}
	if len(params.LabelIDs) > 0 {
		input["labelIds"] = params.LabelIDs
	}
	if params.ParentID != nil && *params.ParentID != "" {
		input["parentId"] = *params.ParentID
	}

	mutation := fmt.Sprintf(
		"mutation($input: IssueCreateInput!) { issueCreate(input: $input) { success issue { %s } } }",
		issueFields)

	var data struct {
		IssueCreate struct {
			Success bool      `json:"success"`
			Issue   issueNode `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := c.gql(ctx, mutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueCreate.Success {
		return nil, apiErrorf("failed to create issue")
	}

	issue := parseIssue(data.IssueCreate.Issue)
	return &issue, nil
}

// UpdateIssueParams are the fields for updating an issue. Nil fields are
// left untouched; an empty string clears clearable fields, and a negative
// estimate clears the estimate.
type UpdateIssueParams struct {
	Title       *string
	Description *string
	Priority    *IssuePriority
	Estimate    *float64
	DueDate     *string
	AssigneeID  *string
	StateID     *string
	ProjectID   *string
	CycleID     *string
	LabelIDs    []string
	ParentID    *string
}

// clearable maps an optional string field to its mutation value: empty
// strings become null to clear the field upstream.
func clearable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// UpdateIssue updates an existing issue by identifier.
func (c *Client) UpdateIssue(ctx context.Context, identifier string, params UpdateIssueParams) (*Issue, error) {
	issueID, err := c.IssueID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	input := map[string]any{}
	if params.Title != nil {
		input["title"] = *params.Title
	}
	if params.Description != nil {
		input["description"] = *params.Description
	}
	if params.Priority != nil {
		input["priority"] = int(*params.Priority)
	}
	if params.Estimate != nil {
		if *params.Estimate >= 0 {
			input["estimate"] = *params.Estimate
		} else {
			input["estimate"] = nil
		}
	}
	if params.DueDate != nil {
		input["dueDate"] = clearable(*params.DueDate)
	}
	if params.AssigneeID != nil {
		input["assigneeId"] = clearable(*params.AssigneeID)
	}
	if params.StateID != nil {
		input["stateId"] = *params.StateID
	}
	if params.ProjectID != nil {
		input["projectId"] = clearable(*params.ProjectID)
	}
	if params.CycleID != nil {
		input["cycleId"] = clearable(*params.CycleID)
	}
	if params.LabelIDs != nil {
		input["labelIds"] = params.LabelIDs
	}
	if params.ParentID != nil {
		input["parentId"] = clearable(*params.ParentID)
	}

	if len(input) == 0 {
		return nil, apiErrorf("no fields to update")
	}

	mutation := fmt.Sprintf(
		"mutation($id: ID!, $input: IssueUpdateInput!) { issueUpdate(id: $id, input: $input) { success issue { %s } } }",
		issueFields)

	var data struct {
		IssueUpdate struct {
			Success bool      `json:"success"`
			Issue   issueNode `json:"issue"`
		} `json:"issueUpdate"`
	}
	if err := c.gql(ctx, mutation, map[string]any{"id": issueID, "input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueUpdate.Success {
		return nil, apiErrorf("failed to update issue")
	}

	issue := parseIssue(data.IssueUpdate.Issue)
	return &issue, nil
}

// DeleteIssue permanently deletes an issue by identifier.
func (c *Client) DeleteIssue(ctx context.Context, identifier string) (bool, error) {
	issueID, err := c.IssueID(ctx, identifier)
	if err != nil {
		return false, err
	}

	var data struct {
		IssueDelete struct {
			Success bool `json:"success"`
		} `json:"issueDelete"`
	}
	err = c.gql(ctx, "mutation($id: ID!) { issueDelete(id: $id) { success } }",
		map[string]any{"id": issueID}, &data)
	if err != nil {
		return false, err
	}
	return data.IssueDelete.Success, nil
}
