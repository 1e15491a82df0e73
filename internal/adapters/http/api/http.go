// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/domain/dedupe"
	"github.com/snappulse/snappulse/internal/domain/model"
	"github.com/snappulse/snappulse/internal/relay"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Ingest validates and stores a record, deriving its trending score.
	Ingest(ctx context.Context, rec model.SnapMetricRecord) (model.SnapMetricRecord, error)

	// Read operations expose stored metrics.
	Stats(ctx context.Context, snap string, channel model.Channel) (model.SnapMetricRecord, error)
	AllChannels(ctx context.Context, snap string) (map[model.Channel]model.SnapMetricRecord, error)
	Trending(ctx context.Context, n int) ([]model.SnapMetricRecord, error)

	// RelayWebhook forwards a webhook payload to the copilot collaborator.
	RelayWebhook(ctx context.Context, payload []byte, eventType, deliveryID string) (relay.Result, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler       *HealthHandler
	serviceStatsHandler *ServiceStatsHandler
	statsHandler        *StatsHandler
	trendingHandler     *TrendingHandler
	ingestHandler       *IngestHandler
	webhookHandler      *WebhookHandler

	cache *responseCache
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxTrendingLimit int
	cacheSizeMB      int
	cacheTTLSeconds  int
}

// WithMaxTrendingLimit caps the limit accepted by GET /trending.
func WithMaxTrendingLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxTrendingLimit = n
		}
	}
}

// WithResponseCache sizes the read-path response cache.
func WithResponseCache(sizeMB, ttlSeconds int) ServerOption {
	return func(c *serverConfig) {
		if sizeMB > 0 {
			c.cacheSizeMB = sizeMB
		}
		if ttlSeconds > 0 {
			c.cacheTTLSeconds = ttlSeconds
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := &serverConfig{
		maxTrendingLimit: defaultMaxTrendingLimit,
		cacheSizeMB:      defaultCacheSizeMB,
		cacheTTLSeconds:  defaultCacheTTLSeconds,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cache := newResponseCache(cfg.cacheSizeMB, cfg.cacheTTLSeconds)
	return &Server{
		healthHandler:       NewHealthHandler(),
		serviceStatsHandler: NewServiceStatsHandler(statsProvider),
		statsHandler:        NewStatsHandler(deps, cache),
		trendingHandler:     NewTrendingHandler(deps, cfg.maxTrendingLimit, cache),
		ingestHandler:       NewIngestHandler(deps, cache),
		webhookHandler:      NewWebhookHandler(deps),
		cache:               cache,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.serviceStatsHandler.HandleServiceStats, "service_stats"))
	mux.HandleFunc("/stats/", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/trending", MetricsMiddleware(s.trendingHandler.HandleGetTrending, "trending"))
	mux.HandleFunc("/ingest", MetricsMiddleware(s.ingestHandler.HandlePostIngest, "ingest"))
	mux.HandleFunc("/webhook/github", MetricsMiddleware(s.webhookHandler.HandlePostWebhook, "webhook"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// detailResponse carries human-readable failure detail on 4xx bodies.
type detailResponse struct {
	Detail string `json:"detail"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
