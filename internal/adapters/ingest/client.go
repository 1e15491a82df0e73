// Package ingest provides the HTTP client the collector uses to forward
// normalized records to the api service.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/domain/model"
)

// Default forward timeout; the ingest call is bounded so a stalled api
// service cannot wedge a collector worker.
const defaultTimeout = 30 * time.Second

// Client posts records to the api's /ingest endpoint.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout for forward calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
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

// NewClient creates a forward client for the given api base URL,
// e.g. "http://localhost:8000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forward posts one record. Transport errors and non-2xx statuses return
// an error wrapping ErrForwardFailed; the body is drained so connections
// can be reused.
func (c *Client) Forward(ctx context.Context, rec model.SnapMetricRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %s: encode: %w", ErrForwardFailed, rec.Key(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ingest", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrForwardFailed, rec.Key(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrForwardFailed, rec.Key(), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: status %d", ErrForwardFailed, rec.Key(), resp.StatusCode)
	}
	return nil
}
