package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/service"
)

// maxImageSize caps uploaded event images.
const maxImageSize = 5 << 20 // 5 MB

// EventHandler holds the HTTP handlers for event CRUD and participation
// counting.
type EventHandler struct {
	svc      *service.EventService
	reporter service.ErrorReporter
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, reporter service.ErrorReporter) *EventHandler {
	return &EventHandler{svc: svc, reporter: reporter}
}

// eventResponse embeds the derived status so clients never recompute it.
type eventResponse struct {
	model.Event
	Status model.EventStatus `json:"status"`
}

func toEventResponse(e model.Event, now time.Time) eventResponse {
	return eventResponse{Event: e, Status: model.DeriveStatus(&e, now)}
}

func toEventResponses(events []model.Event) []eventResponse {
	now := time.Now().UTC()
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e, now))
	}
	return out
}

// parseEventRequest reads an event payload from either a plain JSON body
// or a multipart form with an eventData JSON field and an optional image
// file part.
func parseEventRequest(r *http.Request) (model.CreateEventRequest, *service.Upload, error) {
	var req model.CreateEventRequest

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return req, nil, decodeJSON(r, &req)
	}

	if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
		return req, nil, err
	}
	if err := json.Unmarshal([]byte(r.FormValue("eventData")), &req); err != nil {
		return req, nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// No image attached.
		return req, nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return req, nil, err
	}
	if len(data) > maxImageSize {
		return req, nil, errImageTooLarge
	}
	return req, &service.Upload{Filename: header.Filename, Data: data}, nil
}

type imageTooLargeError struct{}

func (imageTooLargeError) Error() string { return "image exceeds the 5 MB limit" }

var errImageTooLarge imageTooLargeError

// Create handles POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, err := parseEventRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), req, UserID(r.Context()), image)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(*event, time.Now().UTC()))
}

// List handles GET /api/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EventFilter{
		ParticipationType: q.Get("type"),
		Department:        q.Get("department"),
		Category:          q.Get("category"),
	}

	events, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// MyEvents handles GET /api/events/myEvents
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListForCreator(r.Context(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*event, time.Now().UTC()))
}

// Update handles PUT /api/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, image, err := parseEventRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req, UserID(r.Context()), image)
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*event, time.Now().UTC()))
}

// Delete handles DELETE /api/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), UserID(r.Context())); err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// ParticipationCount handles GET /api/events/{id}/participation-count
func (h *EventHandler) ParticipationCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ParticipationCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.reporter)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
