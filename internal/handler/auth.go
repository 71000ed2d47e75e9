package handler

import (
	"net/http"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/service"
)

// AuthHandler holds the HTTP handlers for signup, login, and profiles.
type AuthHandler struct {
	svc      *service.AuthService
	reporter service.ErrorReporter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService, reporter service.ErrorReporter) *AuthHandler {
	return &AuthHandler{svc: svc, reporter: reporter}
}

// authResponse pairs a user with their bearer token.
type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup handles POST /api/auth/register
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, tok, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: tok})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, tok, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: tok})
}

// LookupByEmail handles GET /api/auth/by-email?email=...
// The registration form uses it to resolve team members.
func (h *AuthHandler) LookupByEmail(w http.ResponseWriter, r *http.Request) {
	ref, err := h.svc.LookupByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
