package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/petpal/internal/application"
)

type recordStore interface {
	Messages() []application.Record
	SetMessages(ctx context.Context, messages []application.Record)
	Notifications() []application.Record
	SetNotifications(ctx context.Context, notifications []application.Record)
	Profile() application.Record
	SetProfile(ctx context.Context, profile application.Record)
}

// RecordsHandler reads and replaces the opaque messages, notifications and
// profile slices.
type RecordsHandler struct {
	store     recordStore
	responder responder
}

func NewRecordsHandler(store recordStore, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{store: store, responder: newResponder("RecordsHandler", logger)}
}

func (h *RecordsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return h.responder.log(ctx, operation, attrs...)
}

func (h *RecordsHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Messages())
}

func (h *RecordsHandler) PutMessages(w http.ResponseWriter, r *http.Request) {
	var messages []application.Record
	if !h.decode(w, r, "PutMessages", &messages) {
		return
	}
	h.store.SetMessages(r.Context(), messages)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Messages())
}

func (h *RecordsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Notifications())
}

func (h *RecordsHandler) PutNotifications(w http.ResponseWriter, r *http.Request) {
	var notifications []application.Record
	if !h.decode(w, r, "PutNotifications", &notifications) {
		return
	}
	h.store.SetNotifications(r.Context(), notifications)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Notifications())
}

func (h *RecordsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Profile())
}

func (h *RecordsHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var profile application.Record
	if !h.decode(w, r, "PutProfile", &profile) {
		return
	}
	h.store.SetProfile(r.Context(), profile)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.store.Profile())
}

func (h *RecordsHandler) decode(w http.ResponseWriter, r *http.Request, operation string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode records", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	return true
}
