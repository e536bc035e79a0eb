package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BasePath is the versioned prefix of every backend route.
const BasePath = "/api/v1"

// HeaderRequestID carries a per-request uuid for correlating client and backend logs.
const HeaderRequestID = "X-Request-Id"

// Credentials holds the bearer token shared by every request of a profile.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// Set replaces the token.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current token, or "".
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Clear forgets the token.
func (c *Credentials) Clear() {
	c.Set("")
}

// Client talks to the bookstore REST backend.
type Client struct {
	base     *url.URL
	http     *http.Client
	creds    *Credentials
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a client for the backend at baseURL (scheme and host, without /api/v1).
func New(baseURL string, timeout time.Duration, creds *Credentials, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q needs scheme and host", baseURL)
	}
	if creds == nil {
		creds = &Credentials{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:     u,
		http:     &http.Client{Timeout: timeout},
		creds:    creds,
		validate: newValidator(),
		logger:   logger,
	}, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Credentials returns the token holder the client reads from.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// ImageURL returns the public URL of an uploaded image in folder.
func (c *Client) ImageURL(folder, name string) string {
	return c.base.JoinPath("images", folder, name).String()
}

// Validate checks a form struct and returns a *ValidationError on failure.
func (c *Client) Validate(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return newValidationError(verrs)
	}
	return err
}

// endpoint builds an absolute URL for path under /api/v1. rawQuery is sent verbatim.
func (c *Client) endpoint(path, rawQuery string) string {
	u := c.base.JoinPath(BasePath, path)
	u.RawQuery = rawQuery
	return u.String()
}

func (c *Client) doJSON(ctx context.Context, method, path, rawQuery string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, rawQuery), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)
	if tok := c.creds.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("request done",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("query", req.URL.RawQuery),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.String("request_id", reqID),
	)

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	status := resp.StatusCode
	if decodeErr == nil && env.StatusCode >= 400 {
		status = env.StatusCode
	}
	if status >= 400 {
		apiErr := &APIError{StatusCode: status}
		if decodeErr == nil {
			apiErr.Message = env.Message.String()
			apiErr.Kind = env.Error
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		c.logger.Warn("success response without data",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", reqID),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNoData)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
