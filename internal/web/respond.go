package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentfolio/rentfolio/internal/account"
	"github.com/rentfolio/rentfolio/internal/lease"
	"github.com/rentfolio/rentfolio/internal/location"
	"github.com/rentfolio/rentfolio/internal/property"
)

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"message":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiError writes a JSON error response with a message field.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"message": msg}, code)
}

// apiValidationError writes a 400 with per-field detail.
func apiValidationError(w http.ResponseWriter, msg string, fields map[string]string) {
	apiJSON(w, map[string]interface{}{"message": msg, "errors": fields}, http.StatusBadRequest)
}

// storeError maps domain errors to status codes. Anything unrecognized is
// an internal error: logged in full, reported generically.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		apiError(w, "account not found", http.StatusNotFound)
	case errors.Is(err, property.ErrNotFound):
		apiError(w, "property not found", http.StatusNotFound)
	case errors.Is(err, location.ErrNotFound):
		apiError(w, "location not found", http.StatusNotFound)
	case errors.Is(err, lease.ErrNotFound):
		apiError(w, "lease not found", http.StatusNotFound)
	case errors.Is(err, account.ErrDuplicateIdentity):
		apiError(w, account.ErrDuplicateIdentity.Error(), http.StatusConflict)
	case errors.Is(err, lease.ErrInvalidDates):
		apiError(w, lease.ErrInvalidDates.Error(), http.StatusBadRequest)
	default:
		s.internalError(w, r, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	apiError(w, "internal server error", http.StatusInternalServerError)
}
