package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/petpal/internal/application"
)

type bookingController interface {
	stateReader
	SubmitBooking(ctx context.Context, in application.BookingInput) (application.Booking, error)
}

type bookingStore interface {
	Bookings() []application.Booking
}

// BookingHandler lists and submits booking requests.
type BookingHandler struct {
	controller bookingController
	store      bookingStore
	responder  responder
}

func NewBookingHandler(controller bookingController, store bookingStore, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{controller: controller, store: store, responder: newResponder("BookingHandler", logger)}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return h.responder.log(ctx, operation, attrs...)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingsResponse{Bookings: h.store.Bookings()})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	booking, err := h.controller.SubmitBooking(r.Context(), application.BookingInput(req))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingCreatedResponse{
		Booking: booking,
		State:   snapshot(h.controller),
	})
}

type bookingRequest struct {
	SitterID       string `json:"sitterId"`
	PetIDs         []int  `json:"petIds"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	ServiceType    string `json:"serviceType"`
	SpecialNeeds   string `json:"specialNeeds"`
	AdditionalInfo string `json:"additionalInfo"`
}

type bookingsResponse struct {
	Bookings []application.Booking `json:"bookings"`
}

type bookingCreatedResponse struct {
	Booking application.Booking `json:"booking"`
	State   stateResponse       `json:"state"`
}
