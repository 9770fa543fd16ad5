// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import "context"

type userNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

func parseUser(u userNode) User {
	active := true
	if u.Active != nil {
		active = *u.Active
	}
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Active: active}
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var data struct {
		Viewer userNode `json:"viewer"`
	}
	if err := c.gql(ctx, "query { viewer { id name email } }", nil, &data); err != nil {
		return nil, err
	}
	user := parseUser(data.Viewer)
	return &user, nil
}

// Users lists users in the organization.
func (c *Client) Users(ctx context.Context, limit int) ([]User, error) {
	var data struct {
		Users struct {
			Nodes []userNode `json:"nodes"`
		} `json:"users"`
	}
	err := c.gql(ctx,
		"query($first: Int!) { users(first: $first) { nodes { id name email active } } }",
		map[string]any{"first": limit}, &data)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(data.Users.Nodes))
	for _, u := range data.Users.Nodes {
		users = append(users, parseUser(u))
	}
	return users, nil
}

// Teams lists all teams.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := c.gql(ctx, "query { teams { nodes { id name key } } }", nil, &data); err != nil {
		return nil, err
	}
	return data.Teams.Nodes, nil
}

// WorkflowStates lists workflow states (statuses) for a team.
func (c *Client) WorkflowStates(ctx context.Context, teamKey string) ([]WorkflowState, error) {
	teamID, err := c.TeamID(ctx, teamKey)
	if err != nil {
		return nil, err
	}

	var data struct {
		WorkflowStates struct {
			Nodes []WorkflowState `json:"nodes"`
		} `json:"workflowStates"`
	}
	err = c.gql(ctx,
		"query($teamId: ID!) { workflowStates(filter: { team: { id: { eq: $teamId } } }) { nodes { id name type } } }",
		map[string]any{"teamId": teamID}, &data)
	if err != nil {
		return nil, err
	}
	return data.WorkflowStates.Nodes, nil
}
