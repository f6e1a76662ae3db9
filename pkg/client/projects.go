package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type projectEnvelope struct {
	Project *Project `json:"project"`
}

func projectPath(workspaceID, projectID string) string {
	return "/project/" + seg(projectID) + "/workspace/" + seg(workspaceID)
}

func (c *Client) CreateProject(ctx context.Context, workspaceID string, in ProjectInput) (*Project, error) {
	var out projectEnvelope
	if err := c.do(ctx, http.MethodPost, "/project/workspace/"+seg(workspaceID)+"/create", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

// ListProjects pages newest first; zero page values use the server defaults.
func (c *Client) ListProjects(ctx context.Context, workspaceID string, pageSize, pageNumber int) (*ProjectPage, error) {
	var out ProjectPage
	path := "/project/workspace/" + seg(workspaceID) + "/all"
	if err := c.do(ctx, http.MethodGet, path, pageQuery(url.Values{}, pageSize, pageNumber), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProject(ctx context.Context, workspaceID, projectID string) (*Project, error) {
	var out projectEnvelope
	if err := c.do(ctx, http.MethodGet, projectPath(workspaceID, projectID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

func (c *Client) ProjectAnalytics(ctx context.Context, workspaceID, projectID string) (TaskAnalytics, error) {
	var out struct {
		Analytics TaskAnalytics `json:"analytics"`
	}
	err := c.do(ctx, http.MethodGet, projectPath(workspaceID, projectID)+"/analytics", nil, nil, &out)
	return out.Analytics, err
}

func (c *Client) UpdateProject(ctx context.Context, workspaceID, projectID string, in ProjectUpdate) (*Project, error) {
	var out projectEnvelope
	if err := c.do(ctx, http.MethodPut, projectPath(workspaceID, projectID)+"/update", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Project, nil
}

// DeleteProject also deletes the project's tasks.
func (c *Client) DeleteProject(ctx context.Context, workspaceID, projectID string) error {
	return c.do(ctx, http.MethodDelete, projectPath(workspaceID, projectID)+"/delete", nil, nil, nil)
}

func pageQuery(q url.Values, pageSize, pageNumber int) url.Values {
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageNumber > 0 {
		q.Set("pageNumber", strconv.Itoa(pageNumber))
	}
	return q
}
