// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/domain/model"
)

const maxIngestBody = 1 << 20 // 1 MB

// IngestDependencies defines the interface for record ingestion.
type IngestDependencies interface {
	Ingest(ctx context.Context, rec model.SnapMetricRecord) (model.SnapMetricRecord, error)
}

// IngestHandler handles record ingestion requests.
type IngestHandler struct {
	deps  IngestDependencies
	cache *responseCache
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies, cache *responseCache) *IngestHandler {
	return &IngestHandler{deps: deps, cache: cache}
}

// HandlePostIngest handles POST /ingest requests.
func (h *IngestHandler) HandlePostIngest(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_ingest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var rec model.SnapMetricRecord
	body := http.MaxBytesReader(w, r.Body, maxIngestBody)
	if err := json.NewDecoder(body).Decode(&rec); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.deps.Ingest(r.Context(), rec); err != nil {
		if errors.Is(err, model.ErrValidation) {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	// Stored data changed; drop cached read responses.
	h.cache.clear()

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}
