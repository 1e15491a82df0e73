// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	repository "github.com/snappulse/snappulse/internal/adapters/repository"
	"github.com/snappulse/snappulse/internal/domain/dedupe"
	"github.com/snappulse/snappulse/internal/domain/model"
	"github.com/snappulse/snappulse/internal/relay"
	"github.com/snappulse/snappulse/pkg/logger"
	"github.com/snappulse/snappulse/pkg/metrics"
)

// Service implements the API dependencies for the dashboard backend.
// It owns the metrics store; nothing else mutates it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	relayer *relay.Client

	// Configuration
	copilotURL   string
	relayTimeout time.Duration
	dedupeSize   int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCopilotURL sets the base URL of the copilot collaborator that
// receives relayed webhooks.
func WithCopilotURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.copilotURL = url
		}
	}
}

// WithRelayTimeout sets the timeout for relayed webhook calls.
func WithRelayTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.relayTimeout = d
		}
	}
}

// WithDedupeSize sets the size of the webhook delivery dedupe cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStore replaces the metrics store. Intended for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRelayClient replaces the relay client. Intended for tests.
func WithRelayClient(c *relay.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.relayer = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

const (
	defaultDedupeSize   = 10000
	defaultRelayTimeout = 30 * time.Second
)

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		copilotURL:   "http://localhost:8001",
		relayTimeout: defaultRelayTimeout,
		dedupeSize:   defaultDedupeSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(
			dedupe.WithMaxSize(s.dedupeSize),
		)
	}
	if s.relayer == nil {
		s.relayer = relay.NewClient(s.copilotURL,
			relay.WithTimeout(s.relayTimeout),
		)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("copilotURL", s.copilotURL),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop shuts the service down. The store is in-memory so there is
// nothing to flush; shutdown only flips state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "dashboard service stopped")
	s.started = false
}

// Ingest validates rec, derives its trending score and timestamp, and
// replaces any previous record for the same snap and channel.
func (s *Service) Ingest(ctx context.Context, rec model.SnapMetricRecord) (model.SnapMetricRecord, error) {
	stored, err := s.store.Put(ctx, rec)
	if err != nil {
		metrics.RecordIngestRejected()
		if !errors.Is(err, model.ErrValidation) {
			metrics.RecordErrorByComponent("service", "ingest")
		}
		return model.SnapMetricRecord{}, err
	}

	metrics.RecordIngestAccepted()
	s.logger.Debug(ctx, "record ingested",
		logger.String("snap", stored.SnapName),
		logger.String("channel", string(stored.Channel)),
		logger.Float64("trendingScore", stored.TrendingScore),
	)
	return stored, nil
}

// Stats returns the stored record for one snap/channel pair.
func (s *Service) Stats(ctx context.Context, snap string, channel model.Channel) (model.SnapMetricRecord, error) {
	return s.store.Get(ctx, snap, channel)
}

// AllChannels returns every stored channel record for a snap.
func (s *Service) AllChannels(ctx context.Context, snap string) (map[model.Channel]model.SnapMetricRecord, error) {
	return s.store.AllChannels(ctx, snap)
}

// Trending returns the top n records ordered by trending score.
func (s *Service) Trending(ctx context.Context, n int) ([]model.SnapMetricRecord, error) {
	return s.store.TopN(ctx, n)
}

// RelayWebhook forwards a webhook payload to the copilot collaborator
// and returns its response for passthrough.
func (s *Service) RelayWebhook(ctx context.Context, payload []byte, eventType, deliveryID string) (relay.Result, error) {
	res, err := s.relayer.Relay(ctx, payload, eventType, deliveryID)
	if err != nil {
		metrics.RecordRelayDelivery("failure")
		metrics.RecordErrorByComponent("relay", "transport")
		return relay.Result{}, err
	}
	metrics.RecordRelayDelivery("success")
	return res, nil
}

// SeenAndRecord atomically checks whether a webhook delivery id was
// already relayed and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord forgets a delivery id so a failed relay can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of remembered delivery ids.
func (s *Service) Size() int {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		stats["totalRecords"] = s.store.Count(ctx)
		stats["seenDeliveries"] = s.deduper.Size()
	}

	return stats
}
