// Package relay forwards inbound webhook payloads to the copilot
// collaborator. It carries no business logic; the collaborator's
// response passes through to the original caller.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default relay configuration.
const (
	defaultTimeout     = 30 * time.Second
	maxResponseBody    = 1 << 20 // 1 MB
	defaultWebhookPath = "/webhook/github"
)

// Result is the collaborator's passthrough response.
type Result struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Client posts webhook payloads to the copilot service.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout for relay calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPath overrides the collaborator webhook path.
func WithPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.path = p
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a relay client for the given collaborator base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		path:       defaultWebhookPath,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Relay posts the raw payload to the collaborator and returns its
// response verbatim. Only transport failures error; collaborator status
// codes, including errors, pass through in the Result.
func (c *Client) Relay(ctx context.Context, payload []byte, eventType, deliveryID string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if eventType != "" {
		req.Header.Set("X-GitHub-Event", eventType)
	}
	if deliveryID != "" {
		req.Header.Set("X-GitHub-Delivery", deliveryID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %w", ErrRelayFailed, err)
	}

	return Result{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
