package client

import (
	"context"
	"net/http"
)

type workspaceEnvelope struct {
	Workspace *Workspace `json:"workspace"`
}

func (c *Client) CreateWorkspace(ctx context.Context, in WorkspaceInput) (*Workspace, error) {
	var out workspaceEnvelope
	if err := c.do(ctx, http.MethodPost, "/workspace/create/new", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Workspace, nil
}

func (c *Client) ListWorkspaces(ctx context.Context) ([]*Workspace, error) {
	var out struct {
		Workspaces []*Workspace `json:"workspaces"`
	}
	if err := c.do(ctx, http.MethodGet, "/workspace/all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Workspaces, nil
}

func (c *Client) GetWorkspace(ctx context.Context, workspaceID string) (*WorkspaceDetail, error) {
	var out WorkspaceDetail
	if err := c.do(ctx, http.MethodGet, "/workspace/"+seg(workspaceID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkspace(ctx context.Context, workspaceID string, in WorkspaceUpdate) (*Workspace, error) {
	var out workspaceEnvelope
	if err := c.do(ctx, http.MethodPut, "/workspace/update/"+seg(workspaceID), nil, in, &out); err != nil {
		return nil, err
	}
	return out.Workspace, nil
}

// DeleteWorkspace returns the caller's current workspace afterwards.
func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID string) (string, error) {
	var out struct {
		CurrentWorkspace string `json:"current_workspace"`
	}
	if err := c.do(ctx, http.MethodDelete, "/workspace/delete/"+seg(workspaceID), nil, nil, &out); err != nil {
		return "", err
	}
	return out.CurrentWorkspace, nil
}

func (c *Client) ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID string) (*Member, error) {
	var out struct {
		Member *Member `json:"member"`
	}
	body := map[string]string{"member_id": memberUserID, "role_id": roleID}
	if err := c.do(ctx, http.MethodPut, "/workspace/change/member/role/"+seg(workspaceID), nil, body, &out); err != nil {
		return nil, err
	}
	return out.Member, nil
}

func (c *Client) WorkspaceMembers(ctx context.Context, workspaceID string) (*WorkspaceMembers, error) {
	var out WorkspaceMembers
	if err := c.do(ctx, http.MethodGet, "/workspace/members/"+seg(workspaceID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WorkspaceAnalytics(ctx context.Context, workspaceID string) (TaskAnalytics, error) {
	var out struct {
		Analytics TaskAnalytics `json:"analytics"`
	}
	err := c.do(ctx, http.MethodGet, "/workspace/analytics/"+seg(workspaceID), nil, nil, &out)
	return out.Analytics, err
}

func (c *Client) ResetInviteCode(ctx context.Context, workspaceID string) (*Workspace, error) {
	var out workspaceEnvelope
	if err := c.do(ctx, http.MethodPut, "/workspace/reset/invite/"+seg(workspaceID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Workspace, nil
}

func (c *Client) RemoveMember(ctx context.Context, workspaceID, memberUserID string) error {
	return c.do(ctx, http.MethodDelete, "/workspace/"+seg(workspaceID)+"/member/"+seg(memberUserID), nil, nil, nil)
}
