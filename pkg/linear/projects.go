// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import "context"

const projectFields = "id name description state url"

// Projects lists projects, optionally filtered by team key.
func (c *Client) Projects(ctx context.Context, teamKey string, limit int) ([]Project, error) {
	if limit <= 0 {
		limit = 50
	}

	var data struct {
		Projects struct {
			Nodes []Project `json:"nodes"`
		} `json:"projects"`
	}

	var err error
	if teamKey != "" {
		var teamID string
		teamID, err = c.TeamID(ctx, teamKey)
		if err != nil {
			return nil, err
		}
		err = c.gql(ctx,
			"query($first: Int!, $teamId: ID!) { projects(first: $first, filter: { accessibleTeams: { id: { eq: $teamId } } }) { nodes { "+projectFields+" } } }",
			map[string]any{"first": limit, "teamId": teamID}, &data)
	} else {
		err = c.gql(ctx,
			"query($first: Int!) { projects(first: $first) { nodes { "+projectFields+" } } }",
			map[string]any{"first": limit}, &data)
	}
	if err != nil {
		return nil, err
	}
	return data.Projects.Nodes, nil
}

// CreateProject creates a project shared by the given teams.
func (c *Client) CreateProject(ctx context.Context, name string, teamKeys []string, description string) (*Project, error) {
	teamIDs := make([]string, 0, len(teamKeys))
	for _, key := range teamKeys {
		teamID, err := c.TeamID(ctx, key)
		if err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, teamID)
	}

	input := map[string]any{"name": name, "teamIds": teamIDs}
	if description != "" {
		input["description"] = description
	}

	var data struct {
		ProjectCreate struct {
			Success bool    `json:"success"`
			Project Project `json:"project"`
		} `json:"projectCreate"`
	}
	err := c.gql(ctx,
		"mutation($input: ProjectCreateInput!) { projectCreate(input: $input) { success project { "+projectFields+" } } }",
		map[string]any{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.ProjectCreate.Success {
		return nil, apiErrorf("failed to create project")
	}
	return &data.ProjectCreate.Project, nil
}

// UpdateProjectParams are the fields for updating a project. State can be:
// planned, backlog, started, paused, completed, canceled.
type UpdateProjectParams struct {
	Name        *string
	Description *string
	State       *string
}

// UpdateProject updates a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, params UpdateProjectParams) (*Project, error) {
	input := map[string]any{}
	if params.Name != nil {
		input["name"] = *params.Name
	}
	if params.Description != nil {
		input["description"] = *params.Description
	}
	if params.State != nil {
		input["state"] = *params.State
	}

	if len(input) == 0 {
		return nil, apiErrorf("no fields to update")
	}

	var data struct {
		ProjectUpdate struct {
			Success bool    `json:"success"`
			Project Project `json:"project"`
		} `json:"projectUpdate"`
	}
	err := c.gql(ctx,
		"mutation($id: ID!, $input: ProjectUpdateInput!) { projectUpdate(id: $id, input: $input) { success project { "+projectFields+" } } }",
		map[string]any{"id": projectID, "input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.ProjectUpdate.Success {
		return nil, apiErrorf("failed to update project")
	}
	return &data.ProjectUpdate.Project, nil
}

type cycleNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
}

func parseCycle(c cycleNode) Cycle {
	return Cycle{ID: c.ID, Name: c.Name, Number: c.Number, StartsAt: c.StartsAt, EndsAt: c.EndsAt}
}

// Cycles lists cycles (sprints) for a team.
func (c *Client) Cycles(ctx context.Context, teamKey string, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = 20
	}

	teamID, err := c.TeamID(ctx, teamKey)
	if err != nil {
		return nil, err
	}

	var data struct {
		Cycles struct {
			Nodes []cycleNode `json:"nodes"`
		} `json:"cycles"`
	}
	err = c.gql(ctx,
		"query($teamId: ID!, $first: Int!) { cycles(first: $first, filter: { team: { id: { eq: $teamId } } }) { nodes { id name number startsAt endsAt } } }",
		map[string]any{"teamId": teamID, "first": limit}, &data)
	if err != nil {
		return nil, err
	}

	cycles := make([]Cycle, 0, len(data.Cycles.Nodes))
	for _, node := range data.Cycles.Nodes {
		cycles = append(cycles, parseCycle(node))
	}
	return cycles, nil
}

// CreateCycle creates a cycle for a team. Dates are ISO 8601.
func (c *Client) CreateCycle(ctx context.Context, teamKey, startsAt, endsAt, name string) (*Cycle, error) {
	teamID, err := c.TeamID(ctx, teamKey)
	if err != nil {
		return nil, err
	}

	input := map[string]any{"teamId": teamID, "startsAt": startsAt, "endsAt": endsAt}
	if name != "" {
		input["name"] = name
	}

	var data struct {
		CycleCreate struct {
			Success bool      `json:"success"`
			Cycle   cycleNode `json:"cycle"`
		} `json:"cycleCreate"`
	}
	err = c.gql(ctx,
		"mutation($input: CycleCreateInput!) { cycleCreate(input: $input) { success cycle { id name number startsAt endsAt } } }",
		map[string]any{"input": input}, &data)
	if err != nil {
		return nil, err
	}
	if !data.CycleCreate.Success {
		return nil, apiErrorf("failed to create cycle")
	}

	cycle := parseCycle(data.CycleCreate.Cycle)
	return &cycle, nil
}
