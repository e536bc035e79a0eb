package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers fetches one page of users. rawQuery is a query.Build string.
func (c *Client) ListUsers(ctx context.Context, rawQuery string) (*Page[User], error) {
	var out Page[User]
	if err := c.doJSON(ctx, http.MethodGet, "user", rawQuery, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser adds a single user.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "user", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkCreateUsers sends the whole batch in one request and returns the
// backend's per-batch counts. A non-zero CountFail is not an error.
func (c *Client) BulkCreateUsers(ctx context.Context, users []BulkUser) (*ImportOutcome, error) {
	if len(users) == 0 {
		return nil, ErrEmptyBatch
	}
	var out ImportOutcome
	if err := c.doJSON(ctx, http.MethodPost, "user/bulk-create", "", users, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser edits name and phone of an existing user.
func (c *Client) UpdateUser(ctx context.Context, in UpdateUserInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, "user", "", in, nil)
}

// DeleteUser removes a user by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "user/"+url.PathEscape(id), "", nil, nil)
}
