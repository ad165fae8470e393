package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying the domain failures the HTTP boundary maps to
// status codes. Services wrap these in an *AppError carrying the user-facing
// message; handlers match them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases must stay externally indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStorage means the backing store was unreachable or failed mid-query.
	// Distinct from ErrInvalidCredentials: a login must never report
	// "wrong password" because the database was down.
	ErrStorage = errors.New("storage error")

	// Reset-token failures. Expired means the signature checked out but the
	// token is past its age window; Invalid means tampering or garbage.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUnknownEmail is returned by the password-reset flows when no account
	// has the given address.
	ErrUnknownEmail = errors.New("unknown email")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation with a caller-supplied message.
// Signup needs full control of the wording ("User X or email Y is already
// registered."), so unlike NotFound this takes the finished message.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// InvalidCredentials returns the unified login failure. Always the same
// message regardless of which check failed.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Incorrect email or password.",
	}
}

// Storage wraps a backing-store failure. The cause stays reachable through
// Unwrap for logging; the message shown to users is generic.
func Storage(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, cause),
		Message: "Database error occurred.",
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:     ErrTokenExpired,
		Message: "The password reset link is expired.",
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:     ErrTokenInvalid,
		Message: "The password reset link is invalid.",
	}
}

func UnknownEmail() *AppError {
	return &AppError{
		Err:     ErrUnknownEmail,
		Message: "Email does not exist.",
	}
}
