// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// ServiceStatsHandler handles service statistics requests.
type ServiceStatsHandler struct {
	statsProvider StatsProvider
}

// NewServiceStatsHandler creates a new service stats handler.
func NewServiceStatsHandler(statsProvider StatsProvider) *ServiceStatsHandler {
	return &ServiceStatsHandler{statsProvider: statsProvider}
}

// HandleServiceStats handles GET /stats requests.
func (h *ServiceStatsHandler) HandleServiceStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
