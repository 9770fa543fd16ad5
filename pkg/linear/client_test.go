// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedalus-labs/linear-mcp/pkg/dispatch"
)

// staticSecrets resolves every secret to a fixed token.
type staticSecrets struct {
	token string
}

func (s staticSecrets) GetSecret(string) (string, error) {
	return s.token, nil
}

// gqlCall records one GraphQL request seen by the fake API.
type gqlCall struct {
	Query     string
	Variables map[string]any
}

// newTestClient starts a fake Linear API whose responses come from respond,
// keyed on the query text. It returns the client and the recorded calls.
func newTestClient(t *testing.T, respond func(call gqlCall) any) (*Client, *[]gqlCall) {
	t.Helper()

	calls := &[]gqlCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/graphql", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		call := gqlCall{Query: body.Query, Variables: body.Variables}
		*calls = append(*calls, call)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": respond(call)}))
	}))
	t.Cleanup(server.Close)

	conn := dispatch.Connection{
		Name:    "linear",
		BaseURL: server.URL,
		Secrets: dispatch.SecretKeys{Token: "LINEAR_TOKEN"},
	}
	dispatcher, err := dispatch.NewDispatcher(conn, dispatch.WithSecretsProvider(staticSecrets{token: "test-token"}))
	require.NoError(t, err)

	return NewClient(dispatcher), calls
}

func TestMe(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{
			"viewer": map[string]any{"id": "user-1", "name": "Ada", "email": "ada@example.com"},
		}
	})

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.Active)
}

func TestTeamIDUppercasesKey(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{
			"teams": map[string]any{"nodes": []any{map[string]any{"id": "team-1"}}},
		}
	})

	id, err := client.TeamID(context.Background(), "eng")
	require.NoError(t, err)
	assert.Equal(t, "team-1", id)

	require.Len(t, *calls, 1)
	assert.Equal(t, "ENG", (*calls)[0].Variables["key"])
}

func TestTeamIDNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{"teams": map[string]any{"nodes": []any{}}}
	})

	_, err := client.TeamID(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIssuesBuildsFilter(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{"issues": map[string]any{"nodes": []any{}}}
	})

	_, err := client.Issues(context.Background(), IssueFilter{
		TeamKey:    "eng",
		AssigneeID: "user-1",
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Contains(t, call.Query, "team: { key: { eq: $teamKey } }")
	assert.Contains(t, call.Query, "assignee: { id: { eq: $assigneeId } }")
	assert.NotContains(t, call.Query, "$stateId")
	assert.Equal(t, "ENG", call.Variables["teamKey"])
	assert.Equal(t, "user-1", call.Variables["assigneeId"])
	assert.Equal(t, float64(20), call.Variables["first"], "default limit")
}

func TestIssueParsesNestedFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{
			"issues": map[string]any{"nodes": []any{map[string]any{
				"id":         "issue-1",
				"identifier": "ENG-123",
				"title":      "Fix login",
				"priority":   2,
				"state":      map[string]any{"id": "state-1", "name": "In Progress"},
				"assignee":   map[string]any{"id": "user-1", "name": "Ada"},
				"labels": map[string]any{"nodes": []any{
					map[string]any{"id": "label-1", "name": "bug"},
				}},
			}}},
		}
	})

	issue, err := client.Issue(context.Background(), "eng-123")
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, "ENG-123", issue.Identifier)
	assert.Equal(t, "In Progress", issue.State)
	assert.Equal(t, "state-1", issue.StateID)
	assert.Equal(t, "Ada", issue.Assignee)
	assert.Equal(t, []string{"bug"}, issue.Labels)
	assert.Equal(t, []string{"label-1"}, issue.LabelIDs)
}

func TestIssueNotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{"issues": map[string]any{"nodes": []any{}}}
	})

	issue, err := client.Issue(context.Background(), "ENG-999")
	require.NoError(t, err)
	assert.Nil(t, issue)
}

func TestCreateIssue(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(call gqlCall) any {
		if strings.Contains(call.Query, "teams(filter") {
			return map[string]any{
				"teams": map[string]any{"nodes": []any{map[string]any{"id": "team-1"}}},
			}
		}
		return map[string]any{
			"issueCreate": map[string]any{
				"success": true,
				"issue": map[string]any{
					"id":         "issue-1",
					"identifier": "ENG-124",
					"title":      "New issue",
				},
			},
		}
	})

	description := "details"
	priority := PriorityHigh
	issue, err := client.CreateIssue(context.Background(), CreateIssueParams{
		Title:       "New issue",
		TeamKey:     "ENG",
		Description: &description,
		Priority:    &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, "ENG-124", issue.Identifier)

	require.Len(t, *calls, 2, "team resolve then create mutation")
	input, ok := (*calls)[1].Variables["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "New issue", input["title"])
	assert.Equal(t, "team-1", input["teamId"])
	assert.Equal(t, "details", input["description"])
	assert.Equal(t, float64(PriorityHigh), input["priority"])
}

func TestUpdateIssueClearsFields(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(call gqlCall) any {
		if strings.Contains(call.Query, "issues(filter") {
			return map[string]any{
				"issues": map[string]any{"nodes": []any{map[string]any{"id": "issue-1"}}},
			}
		}
		return map[string]any{
			"issueUpdate": map[string]any{
				"success": true,
				"issue":   map[string]any{"id": "issue-1", "identifier": "ENG-123"},
			},
		}
	})

	emptyAssignee := ""
	clearEstimate := -1.0
	_, err := client.UpdateIssue(context.Background(), "ENG-123", UpdateIssueParams{
		AssigneeID: &emptyAssignee,
		Estimate:   &clearEstimate,
	})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	input, ok := (*calls)[1].Variables["input"].(map[string]any)
	require.True(t, ok)

	// Empty string and negative estimate clear the fields upstream.
	assignee, present := input["assigneeId"]
	require.True(t, present)
	assert.Nil(t, assignee)
	estimate, present := input["estimate"]
	require.True(t, present)
	assert.Nil(t, estimate)
}

func TestUpdateIssueRequiresFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{
			"issues": map[string]any{"nodes": []any{map[string]any{"id": "issue-1"}}},
		}
	})

	_, err := client.UpdateIssue(context.Background(), "ENG-123", UpdateIssueParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields to update")
}

func TestGraphQLErrorsSurface(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"rate limited"},{"message":"try later"}]}`))
	}))
	t.Cleanup(server.Close)

	dispatcher, err := dispatch.NewDispatcher(dispatch.Connection{
		Name:    "linear",
		BaseURL: server.URL,
		Secrets: dispatch.SecretKeys{Token: "LINEAR_TOKEN"},
	}, dispatch.WithSecretsProvider(staticSecrets{token: "test-token"}))
	require.NoError(t, err)

	_, err = NewClient(dispatcher).Teams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GraphQL error: rate limited; try later")
}

func TestUpstreamStatusErrorSurfaces(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	dispatcher, err := dispatch.NewDispatcher(dispatch.Connection{
		Name:    "linear",
		BaseURL: server.URL,
		Secrets: dispatch.SecretKeys{Token: "LINEAR_TOKEN"},
	}, dispatch.WithSecretsProvider(staticSecrets{token: "test-token"}))
	require.NoError(t, err)

	_, err = NewClient(dispatcher).Teams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (400)")
}

func TestDocumentsFiltersByProject(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(_ gqlCall) any {
		return map[string]any{
			"documents": map[string]any{"nodes": []any{map[string]any{
				"id":      "doc-1",
				"title":   "Design notes",
				"project": map[string]any{"id": "project-1"},
			}}},
		}
	})

	docs, err := client.Documents(context.Background(), "project-1", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "project-1", docs[0].ProjectID)

	require.Len(t, *calls, 1)
	assert.Contains(t, (*calls)[0].Query, "filter: { project: { id: { eq: $projectId } } }")
	assert.Equal(t, "project-1", (*calls)[0].Variables["projectId"])
	assert.Equal(t, float64(50), (*calls)[0].Variables["first"], "default limit")
}

func TestCreateWebhookResolvesTeam(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(call gqlCall) any {
		if strings.Contains(call.Query, "teams(filter") {
			return map[string]any{
				"teams": map[string]any{"nodes": []any{map[string]any{"id": "team-1"}}},
			}
		}
		return map[string]any{
			"webhookCreate": map[string]any{
				"success": true,
				"webhook": map[string]any{
					"id":            "webhook-1",
					"url":           "https://hooks.example.com/linear",
					"resourceTypes": []any{"Issue"},
				},
			},
		}
	})

	webhook, err := client.CreateWebhook(context.Background(),
		"https://hooks.example.com/linear", []string{"Issue"}, "eng", "ci")
	require.NoError(t, err)
	assert.Equal(t, "webhook-1", webhook.ID)
	assert.True(t, webhook.Enabled, "enabled defaults to true when upstream omits it")

	require.Len(t, *calls, 2)
	input, ok := (*calls)[1].Variables["input"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "team-1", input["teamId"])
	assert.Equal(t, "ci", input["label"])
}
