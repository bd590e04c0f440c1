package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/petpal/internal/application"
)

type sessionController interface {
	View() application.View
	Screen() application.Screen
	Header() application.Header
	Auth() application.AuthState
	CurrentUser() *application.User
	NavigateTo(ctx context.Context, raw string) application.Screen
	Authenticate(ctx context.Context, email, password string) (*application.User, error)
	Signup(ctx context.Context, in application.SignupInput) (*application.User, error)
	Logout(ctx context.Context) application.Screen
}

// SessionHandler serves navigation and the login, logout and signup flows.
type SessionHandler struct {
	controller sessionController
	responder  responder
}

func NewSessionHandler(controller sessionController, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{controller: controller, responder: newResponder("SessionHandler", logger)}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return h.responder.log(ctx, operation, attrs...)
}

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshot(h.controller))
}

func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Navigate", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode navigate request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	screen := h.controller.NavigateTo(r.Context(), req.Request)
	h.log(r.Context(), "Navigate", "request", req.Request).DebugContext(r.Context(), "navigated", "screen", string(screen.ID))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshot(h.controller))
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if _, err := h.controller.Authenticate(r.Context(), req.Email, req.Password); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshot(h.controller))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.controller.Logout(r.Context())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshot(h.controller))
}

func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.controller == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Signup", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode signup request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if _, err := h.controller.Signup(r.Context(), req.toInput()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, snapshot(h.controller))
}

type navigateRequest struct {
	Request string `json:"request"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	UserType        string `json:"userType"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (req signupRequest) toInput() application.SignupInput {
	return application.SignupInput{
		Role:            application.Role(req.UserType),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

type screenDTO struct {
	ID    string `json:"id"`
	Param string `json:"param,omitempty"`
}

type stateResponse struct {
	View            string    `json:"view"`
	Screen          screenDTO `json:"screen"`
	Header          string    `json:"header"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	UserType        string    `json:"userType"`
	User            *userDTO  `json:"user"`
}

type stateReader interface {
	View() application.View
	Screen() application.Screen
	Header() application.Header
	Auth() application.AuthState
	CurrentUser() *application.User
}

func snapshot(c stateReader) stateResponse {
	screen := c.Screen()
	auth := c.Auth()
	return stateResponse{
		View:            c.View().Request(),
		Screen:          screenDTO{ID: string(screen.ID), Param: screen.Param},
		Header:          string(c.Header()),
		IsAuthenticated: auth.Authenticated,
		UserType:        string(auth.Role),
		User:            toUserDTO(c.CurrentUser()),
	}
}

// userDTO is a user without the password.
type userDTO struct {
	ID        string            `json:"id"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Avatar    string            `json:"avatar"`
	UserType  string            `json:"type"`
	Pets      []application.Pet `json:"pets"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toUserDTO(user *application.User) *userDTO {
	if user == nil {
		return nil
	}
	pets := user.Pets
	if pets == nil {
		pets = []application.Pet{}
	}
	return &userDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Avatar:    user.Avatar,
		UserType:  string(user.Role),
		Pets:      pets,
		CreatedAt: user.CreatedAt,
	}
}
