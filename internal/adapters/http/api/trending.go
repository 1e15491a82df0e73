// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/domain/model"
)

const defaultTrendingLimit = 10

// TrendingDependencies defines the interface for trending reads.
type TrendingDependencies interface {
	Trending(ctx context.Context, n int) ([]model.SnapMetricRecord, error)
}

// TrendingHandler handles trending leaderboard requests.
type TrendingHandler struct {
	deps     TrendingDependencies
	maxLimit int
	cache    *responseCache
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(deps TrendingDependencies, maxLimit int, cache *responseCache) *TrendingHandler {
	return &TrendingHandler{
		deps:     deps,
		maxLimit: maxLimit,
		cache:    cache,
	}
}

type trendingResponse struct {
	Trending []model.SnapMetricRecord `json:"trending"`
}

// HandleGetTrending handles GET /trending?limit=N requests.
func (h *TrendingHandler) HandleGetTrending(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trending"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultTrendingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	cacheKey := fmt.Sprintf("trending:%d", n)
	if body, ok := h.cache.get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	records, err := h.deps.Trending(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if records == nil {
		records = []model.SnapMetricRecord{}
	}

	body, err := json.Marshal(trendingResponse{Trending: records})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	h.cache.set(cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
