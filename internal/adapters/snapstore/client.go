// Package snapstore fetches package metadata from the snap catalog's
// HTTP API and normalizes it into metric records.
package snapstore

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// Default client configuration.
const (
	defaultTimeout      = 10 * time.Second
	defaultDeviceSeries = "16"
	defaultUserAgent    = "SnapPulse/1.0"
)

// Client queries the catalog's /v2/snaps/info endpoint.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	deviceSeries string
	userAgent    string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout for fetch calls.
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

// NewClient creates a catalog client for the given base URL,
// e.g. "https://api.snapcraft.io".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		deviceSeries: defaultDeviceSeries,
		userAgent:    defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SnapInfo is the subset of the catalog payload the pipeline cares about.
type SnapInfo struct {
	Name       string            `json:"name"`
	Snap       SnapDetails       `json:"snap"`
	ChannelMap []ChannelMapEntry `json:"channel-map"`
}

// SnapDetails carries per-package metadata shared by all channels.
// Rating is only present on catalog deployments that expose it.
type SnapDetails struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Publisher Publisher `json:"publisher"`
	Rating    float64   `json:"rating"`
}

// Publisher identifies who publishes the snap.
type Publisher struct {
	DisplayName string `json:"display-name"`
	Username    string `json:"username"`
}

// ChannelMapEntry is one released revision on one channel. The download
// count fields are optional; public catalog instances omit them.
type ChannelMapEntry struct {
	Channel            ChannelRef `json:"channel"`
	Version            string     `json:"version"`
	Confinement        string     `json:"confinement"`
	Download           Download   `json:"download"`
	DownloadTotal      int64      `json:"download-total"`
	DownloadLast30Days int64      `json:"download-last-30-days"`
}

// ChannelRef locates a channel within a track.
type ChannelRef struct {
	Name  string `json:"name"`
	Risk  string `json:"risk"`
	Track string `json:"track"`
}

// Download carries artifact size information.
type Download struct {
	Size int64 `json:"size"`
}

// Fetch issues a single catalog request for one snap. Non-2xx statuses
// and transport errors return an error wrapping ErrFetchFailed; the
// caller recovers at the cycle boundary rather than crashing the loop.
func (c *Client) Fetch(ctx context.Context, snap string) (*SnapInfo, error) {
	url := fmt.Sprintf("%s/v2/snaps/info/%s", c.baseURL, snap)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, snap, err)
	}
	req.Header.Set("Snap-Device-Series", c.deviceSeries)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, snap, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, snap, resp.StatusCode)
	}

	var info SnapInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrFetchFailed, snap, err)
	}
	return &info, nil
}
