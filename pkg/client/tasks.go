package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type taskEnvelope struct {
	Task *Task `json:"task"`
}

func (c *Client) CreateTask(ctx context.Context, workspaceID, projectID string, in TaskInput) (*Task, error) {
	var out taskEnvelope
	path := "/task/project/" + seg(projectID) + "/workspace/" + seg(workspaceID) + "/create"
	if err := c.do(ctx, http.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, workspaceID, projectID, taskID string, in TaskUpdate) (*Task, error) {
	var out taskEnvelope
	path := "/task/" + seg(taskID) + "/project/" + seg(projectID) + "/workspace/" + seg(workspaceID) + "/update"
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) ListTasks(ctx context.Context, workspaceID string, f TaskFilter) (*TaskPage, error) {
	var out TaskPage
	if err := c.do(ctx, http.MethodGet, "/task/workspace/"+seg(workspaceID)+"/all", f.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, workspaceID, projectID, taskID string) (*TaskView, error) {
	var out struct {
		Task *TaskView `json:"task"`
	}
	path := "/task/" + seg(taskID) + "/project/" + seg(projectID) + "/workspace/" + seg(workspaceID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, workspaceID, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/task/"+seg(taskID)+"/workspace/"+seg(workspaceID)+"/delete", nil, nil, nil)
}

func (f TaskFilter) query() url.Values {
	q := url.Values{}
	set := func(key string, values []string) {
		if len(values) > 0 {
			q.Set(key, strings.Join(values, ","))
		}
	}
	if f.ProjectID != "" {
		q.Set("projectId", f.ProjectID)
	}
	set("status", f.Statuses)
	set("priority", f.Priorities)
	set("assignedTo", f.AssignedTo)
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	if !f.DueDate.IsZero() {
		q.Set("dueDate", f.DueDate.UTC().Format("2006-01-02"))
	}
	return pageQuery(q, f.PageSize, f.PageNumber)
}
