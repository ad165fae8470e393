package handler

// Response helpers: one JSON shape for data, one for errors, one place that
// maps domain errors to status codes. Handlers never pick status codes for
// domain failures themselves.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/byteserenity/blog/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "conflict")
	Message string `json:"message"` // Human-readable description
}

// MessageResponse is the body for operations whose result is just a
// confirmation text (forgot-password, reset-password, like).
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; after the first write they're frozen.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent - nothing left to do but log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the standard
// error body.
//
// The mapping is the whole error-propagation policy in one switch:
// every failure a service can return ends here as a status code and a
// user-facing message, never as an unhandled fault. Unknown errors become a
// generic 500 - internal details (SQL, file paths) must not leak.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrTokenExpired):
			status = http.StatusBadRequest
			errorType = "token_expired"
		case errors.Is(err, apperror.ErrTokenInvalid):
			status = http.StatusBadRequest
			errorType = "token_invalid"
		case errors.Is(err, apperror.ErrUnknownEmail):
			status = http.StatusBadRequest
			errorType = "unknown_email"
		case errors.Is(err, apperror.ErrStorage):
			status = http.StatusServiceUnavailable
			errorType = "storage_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
