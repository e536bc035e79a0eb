package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ListBooks fetches one page of books. rawQuery is a query.Build string.
func (c *Client) ListBooks(ctx context.Context, rawQuery string) (*Page[Book], error) {
	var out Page[Book]
	if err := c.doJSON(ctx, http.MethodGet, "book", rawQuery, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBook fetches a single book.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var out Book
	if err := c.doJSON(ctx, http.MethodGet, "book/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBook adds a book. Thumbnail and slider are names returned by UploadImage.
func (c *Client) CreateBook(ctx context.Context, in BookInput) (*Book, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out Book
	if err := c.doJSON(ctx, http.MethodPost, "book", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook replaces the editable fields of a book.
func (c *Client) UpdateBook(ctx context.Context, id string, in BookInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, "book/"+url.PathEscape(id), "", in, nil)
}

// DeleteBook removes a book by ID.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "book/"+url.PathEscape(id), "", nil, nil)
}

// Categories lists the book categories known to the backend.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doJSON(ctx, http.MethodGet, "database/category", "", nil, &out)
	if errors.Is(err, ErrNoData) {
		// An empty catalogue may be sent as null.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
