package server

import (
	"encoding/json"
	"net/http"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/store"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse acknowledges a mutation.
type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// restoreStatus maps a restore result to an HTTP status.
func restoreStatus(outcome container.Outcome, err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil && outcome == container.OutcomeOK:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrArtifact):
		return http.StatusInternalServerError
	case outcome == container.OutcomeInvalidFile:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// aliasStatus maps an alias mutation error to an HTTP status.
func aliasStatus(err error) int {
	switch {
	case errors.Is(err, alias.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, alias.ErrInvalidName), errors.Is(err, alias.ErrUnknownDeviceType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
