package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token. The token is not stored
// on the client; callers decide whether to persist and install it.
func (c *Client) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a USER account without authentication.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "user/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Account returns the user the current token belongs to.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var out struct {
		User Account `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "auth/account", "", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout invalidates the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "auth/logout", "", nil, nil)
}
