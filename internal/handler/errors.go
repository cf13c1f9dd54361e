package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tripweaver/backend/internal/domain"
)

// errorResponse is the JSON error body for every non-2xx response:
// {"error": "...", "details": "..."} with details omitted when empty.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// by the caller's middleware via the 500 status; nothing more can be done
// once the body has started.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the standard error body.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// writeDomainError maps the domain sentinel errors to HTTP statuses:
// ErrNotFound→404, ErrValidation→422, ErrUnauthorized→401, everything
// else→500 with a generic message (internals never leak to clients).
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, sentinelMessage(err, domain.ErrValidation), "")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, sentinelMessage(err, domain.ErrUnauthorized), "")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// sentinelMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "validation error: destination must be at least 2 characters"
// → "destination must be at least 2 characters".
func sentinelMessage(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
