package client

import (
	"context"
	"net/http"
)

// Register creates an account with a personal workspace and keeps the token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login signs in with email and password and keeps the token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Logout revokes the current token server-side and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/current", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// JoinWorkspace joins by invite code. Joining twice is not an error.
func (c *Client) JoinWorkspace(ctx context.Context, inviteCode string) (*JoinResponse, error) {
	var out JoinResponse
	if err := c.do(ctx, http.MethodPost, "/member/workspace/"+seg(inviteCode)+"/join", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthy reports whether /health/ready answers 200.
func (c *Client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/ready", nil, nil, nil)
}
