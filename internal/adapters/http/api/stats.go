// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/adapters/repository"
	"github.com/snappulse/snappulse/internal/domain/model"
)

// StatsDependencies defines the interface for snap stats reads.
type StatsDependencies interface {
	Stats(ctx context.Context, snap string, channel model.Channel) (model.SnapMetricRecord, error)
	AllChannels(ctx context.Context, snap string) (map[model.Channel]model.SnapMetricRecord, error)
}

// StatsHandler handles per-snap stats requests.
type StatsHandler struct {
	deps  StatsDependencies
	cache *responseCache
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies, cache *responseCache) *StatsHandler {
	return &StatsHandler{deps: deps, cache: cache}
}

// rollupResponse aggregates every channel of one snap. Channels with no
// record yet are present as explicit nulls so the dashboard can tell
// "not collected" apart from zero.
type rollupResponse struct {
	SnapName       string                             `json:"snap_name"`
	Channels       map[string]*model.SnapMetricRecord `json:"channels"`
	TotalDownloads int64                              `json:"total_downloads"`
}

// HandleStats handles GET /stats/{snap} and GET /stats/{snap}/{channel}.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/stats/"), "/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		h.handleRollup(w, r, parts[0])
	case 2:
		h.handleChannel(w, r, parts[0], parts[1])
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
	}
}

func (h *StatsHandler) handleChannel(w http.ResponseWriter, r *http.Request, snap, channelName string) {
	const op = "api.get_stats_channel"
	channel, err := model.ParseChannel(channelName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Stats(r.Context(), snap, channel)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeDetail(w, http.StatusNotFound,
				fmt.Sprintf("No data yet for %s/%s; awaiting collector", snap, channel))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *StatsHandler) handleRollup(w http.ResponseWriter, r *http.Request, snap string) {
	const op = "api.get_stats_rollup"

	cacheKey := "rollup:" + snap
	if body, ok := h.cache.get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	records, err := h.deps.AllChannels(r.Context(), snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	resp := rollupResponse{
		SnapName: snap,
		Channels: make(map[string]*model.SnapMetricRecord, len(model.Channels())),
	}
	for _, channel := range model.Channels() {
		if rec, ok := records[channel]; ok {
			rec := rec
			resp.Channels[string(channel)] = &rec
			resp.TotalDownloads += rec.DownloadTotal
		} else {
			resp.Channels[string(channel)] = nil
		}
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	h.cache.set(cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
