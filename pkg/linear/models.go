// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

// IssuePriority is the Linear issue priority (0=none, 1=urgent, 4=low).
type IssuePriority int

// Issue priorities.
const (
	PriorityNone   IssuePriority = 0
	PriorityUrgent IssuePriority = 1
	PriorityHigh   IssuePriority = 2
	PriorityMedium IssuePriority = 3
	PriorityLow    IssuePriority = 4
)

// User is a Linear user.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

// Team is a Linear team.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// WorkflowState is an issue status within a team's workflow. Type is one of
// backlog, unstarted, started, completed, canceled.
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Issue is a Linear issue.
type Issue struct {
	ID          string   `json:"id"`
	Identifier  string   `json:"identifier"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	State       string   `json:"state,omitempty"`
	StateID     string   `json:"state_id,omitempty"`
	Priority    int      `json:"priority"`
	Estimate    float64  `json:"estimate,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
	Project     string   `json:"project,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	CycleID     string   `json:"cycle_id,omitempty"`
	Labels      []string `json:"labels"`
	LabelIDs    []string `json:"label_ids"`
	ParentID    string   `json:"parent_id,omitempty"`
	URL         string   `json:"url,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Project is a Linear project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Cycle is a team cycle (sprint).
type Cycle struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Number   int    `json:"number"`
	StartsAt string `json:"starts_at,omitempty"`
	EndsAt   string `json:"ends_at,omitempty"`
}

// Comment is a comment on an issue.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	User      string `json:"user,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Label is an issue label.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Document is a project document.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Webhook is a Linear webhook subscription.
type Webhook struct {
	ID            string   `json:"id"`
	Label         string   `json:"label,omitempty"`
	URL           string   `json:"url"`
	Enabled       bool     `json:"enabled"`
	ResourceTypes []string `json:"resource_types"`
}
