// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/utsavhq/utsav/internal/model"
	"github.com/utsavhq/utsav/internal/repository"
	"github.com/utsavhq/utsav/internal/service"
	"github.com/utsavhq/utsav/internal/storage"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognized is a 500: logged, reported, and hidden from the
// client.
func writeServiceError(w http.ResponseWriter, err error, reporter service.ErrorReporter) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrForbidden):
		writeError(w, http.StatusForbidden, "you do not own this resource")
	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrEventFull),
		errors.Is(err, repository.ErrRegistrationClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, storage.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "uploaded file is not a valid image")
	default:
		log.Printf("internal error: %v", err)
		if reporter != nil {
			reporter.CaptureException(err)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
