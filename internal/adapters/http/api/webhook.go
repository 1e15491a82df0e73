// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/snappulse/snappulse/internal/domain/dedupe"
	"github.com/snappulse/snappulse/internal/relay"
)

const maxWebhookBody = 1 << 20 // 1 MB

// WebhookDependencies defines the interface for webhook relaying.
type WebhookDependencies interface {
	dedupe.Deduper
	RelayWebhook(ctx context.Context, payload []byte, eventType, deliveryID string) (relay.Result, error)
}

// WebhookHandler relays inbound webhooks to the copilot collaborator.
type WebhookHandler struct {
	deps WebhookDependencies
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(deps WebhookDependencies) *WebhookHandler {
	return &WebhookHandler{deps: deps}
}

// HandlePostWebhook handles POST /webhook/github requests. The payload
// is forwarded untouched; the collaborator's response, including error
// statuses, passes through to the caller. Only transport failures to
// the collaborator produce a 500 here.
func (h *WebhookHandler) HandlePostWebhook(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_webhook"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	deliveryID := r.Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		// No delivery id means no redelivery semantics; make one up so
		// the dedupe path stays uniform.
		deliveryID = uuid.NewString()
	}

	// Idempotency check - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), deliveryID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "acknowledged", Duplicate: true})
		return
	}

	res, err := h.deps.RelayWebhook(r.Context(), payload, eventType, deliveryID)
	if err != nil {
		// Roll back the "seen" status so a redelivery can be retried.
		h.deps.Unrecord(r.Context(), deliveryID)
		writeError(w, http.StatusInternalServerError, "relay_failed", WrapKind(op, ErrRelay, err))
		return
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}
