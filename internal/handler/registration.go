package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/service"
)

// RegistrationHandler holds the HTTP handlers for team registration.
type RegistrationHandler struct {
	svc      *service.RegistrationService
	reporter service.ErrorReporter
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService, reporter service.ErrorReporter) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, reporter: reporter}
}

// Create handles POST /api/registrations
// Registers the authenticated caller as team leader for an event.
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	team, err := h.svc.RegisterTeam(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Team{"team": team})
}

// ListMine handles GET /api/registrations
// Returns the caller's registrations joined with event data.
func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListForUser(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// ListForEvent handles GET /api/registrations/{eventID}
// Returns the teams registered for an event with their member ids.
func (h *RegistrationHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.ListTeamsForEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	if teams == nil {
		teams = []model.TeamWithMembers{}
	}
	writeJSON(w, http.StatusOK, teams)
}
