package http

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/petpal/internal/application"
)

type sitterController interface {
	SearchSitters(ctx context.Context, filter application.SitterFilter) ([]application.Sitter, error)
	Sitter(ctx context.Context, id string) (application.Sitter, error)
}

// SitterHandler serves the sitter search and profile lookups.
type SitterHandler struct {
	controller sitterController
	responder  responder
}

func NewSitterHandler(controller sitterController, logger *slog.Logger) *SitterHandler {
	return &SitterHandler{controller: controller, responder: newResponder("SitterHandler", logger)}
}

func (h *SitterHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return h.responder.log(ctx, operation, attrs...)
}

func (h *SitterHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := parseSitterFilter(r)
	if err != nil {
		h.log(r.Context(), "List", "error_kind", "bad_request").WarnContext(r.Context(), "invalid sitter filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	sitters, err := h.controller.SearchSitters(r.Context(), filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sittersResponse{Sitters: sitters})
}

func (h *SitterHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sitterID, ok := SitterIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sitterID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSitterID)
		return
	}

	sitter, err := h.controller.Sitter(r.Context(), sitterID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sitterResponse{Sitter: sitter})
}

func parseSitterFilter(r *http.Request) (application.SitterFilter, error) {
	query := r.URL.Query()
	filter := application.SitterFilter{
		Query:   query.Get("q"),
		PetType: query.Get("petType"),
	}

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"maxDistance", &filter.MaxDistance},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := strings.TrimSpace(query.Get(p.name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return application.SitterFilter{}, fmt.Errorf("%s must be a finite number", p.name)
		}
		*p.dst = value
	}
	return filter, nil
}

type sittersResponse struct {
	Sitters []application.Sitter `json:"sitters"`
}

type sitterResponse struct {
	Sitter application.Sitter `json:"sitter"`
}
