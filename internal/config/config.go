// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New(); Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration shared by the SnapPulse binaries.
// Each binary validates only the fields it needs at startup.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address of the api service, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Snaps lists the packages the collector polls.
	Snaps []string `koanf:"snaps"`

	// PollIntervalSeconds is the collector cycle interval.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// SnapStoreURL is the catalog base URL, e.g. "https://api.snapcraft.io".
	SnapStoreURL string `koanf:"snap_store_url"`

	// IngestURL is the api service base URL the collector forwards to.
	IngestURL string `koanf:"ingest_url"`

	// CopilotURL is the copilot collaborator base URL for webhook relay.
	CopilotURL string `koanf:"copilot_url"`

	// FetchTimeoutSeconds bounds a single catalog fetch.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// ForwardTimeoutSeconds bounds a single ingest forward call.
	ForwardTimeoutSeconds int `koanf:"forward_timeout_seconds"`

	// RelayTimeoutSeconds bounds a single webhook relay call to the copilot.
	RelayTimeoutSeconds int `koanf:"relay_timeout_seconds"`

	// MaxTrendingLimit caps GET /trending?limit.
	MaxTrendingLimit int `koanf:"max_trending_limit"`

	// CacheSizeMB sizes the read-response cache.
	CacheSizeMB int `koanf:"cache_size_mb"`

	// CacheTTLSeconds bounds staleness of cached read responses.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// QueueSize bounds the collector's fetch-job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of collector fetch workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the webhook delivery-id cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8000",
		Snaps:                 []string{"firefox"},
		PollIntervalSeconds:   1800,
		SnapStoreURL:          "https://api.snapcraft.io",
		IngestURL:             "http://localhost:8000",
		CopilotURL:            "http://localhost:8001",
		FetchTimeoutSeconds:   10,
		ForwardTimeoutSeconds: 30,
		RelayTimeoutSeconds:   30,
		MaxTrendingLimit:      100,
		CacheSizeMB:           16,
		CacheTTLSeconds:       60,
		QueueSize:             256,
		WorkerCount:           runtime.NumCPU(),
		DedupeSize:            10_000,
	}
}

// ValidateAPI checks the fields the api binary requires.
// Configuration errors are the only fatal startup condition.
func (c *Config) ValidateAPI() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CopilotURL == "" {
		return fmt.Errorf("%w: copilot_url must not be empty", ErrInvalidConfig)
	}
	if c.MaxTrendingLimit < 1 {
		return fmt.Errorf("%w: max_trending_limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// ValidateCollector checks the fields the collector binary requires.
func (c *Config) ValidateCollector() error {
	if len(c.Snaps) == 0 {
		return fmt.Errorf("%w: snaps must name at least one package", ErrInvalidConfig)
	}
	for _, s := range c.Snaps {
		if s == "" {
			return fmt.Errorf("%w: snaps must not contain empty names", ErrInvalidConfig)
		}
	}
	if c.PollIntervalSeconds < 1 {
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.SnapStoreURL == "" {
		return fmt.Errorf("%w: snap_store_url must not be empty", ErrInvalidConfig)
	}
	if c.IngestURL == "" {
		return fmt.Errorf("%w: ingest_url must not be empty", ErrInvalidConfig)
	}
	return nil
}
