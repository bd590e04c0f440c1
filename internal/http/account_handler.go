package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/petpal/internal/application"
)

type accountController interface {
	CurrentUser() *application.User
	UpdateUser(ctx context.Context, user application.User) (*application.User, error)
	AddPet(ctx context.Context, in application.PetInput) (application.Pet, error)
}

// AccountHandler edits the logged in user and their pets.
type AccountHandler struct {
	controller accountController
	responder  responder
}

func NewAccountHandler(controller accountController, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{controller: controller, responder: newResponder("AccountHandler", logger)}
}

func (h *AccountHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return h.responder.log(ctx, operation, attrs...)
}

func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateUser", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode user update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	current := h.controller.CurrentUser()
	if current == nil {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotAuthenticated)
		return
	}

	updated, err := h.controller.UpdateUser(r.Context(), req.apply(*current))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "UpdateUser", "user_id", updated.ID).InfoContext(r.Context(), "user updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(updated)})
}

func (h *AccountHandler) AddPet(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AddPet", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode pet request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	pet, err := h.controller.AddPet(r.Context(), application.PetInput(req))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, petResponse{Pet: pet})
}

// userUpdateRequest carries only the fields the client sends.
type userUpdateRequest struct {
	FirstName *string            `json:"firstName"`
	LastName  *string            `json:"lastName"`
	Name      *string            `json:"name"`
	Email     *string            `json:"email"`
	Phone     *string            `json:"phone"`
	Password  *string            `json:"password"`
	Avatar    *string            `json:"avatar"`
	Pets      *[]application.Pet `json:"pets"`
}

func (req userUpdateRequest) apply(user application.User) application.User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.FirstName, req.FirstName)
	set(&user.LastName, req.LastName)
	set(&user.Email, req.Email)
	set(&user.Phone, req.Phone)
	set(&user.Avatar, req.Avatar)
	if req.Password != nil {
		user.Password = *req.Password
	}
	switch {
	case req.Name != nil:
		user.Name = strings.TrimSpace(*req.Name)
	case req.FirstName != nil || req.LastName != nil:
		user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if req.Pets != nil {
		user.Pets = append([]application.Pet{}, (*req.Pets)...)
	}
	return user
}

type petRequest struct {
	Name    string  `json:"name"`
	Species string  `json:"type"`
	Breed   string  `json:"breed"`
	Age     int     `json:"age"`
	Weight  float64 `json:"weight"`
	Avatar  string  `json:"avatar"`
}

type userResponse struct {
	User *userDTO `json:"user"`
}

type petResponse struct {
	Pet application.Pet `json:"pet"`
}
