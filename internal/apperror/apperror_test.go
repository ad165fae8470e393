package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("username", "Username is required."),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("User alice or email a@x.com is already registered."),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "Storage wraps ErrStorage",
			err:       Storage(errors.New("connection refused")),
			target:    ErrStorage,
			wantMatch: true,
		},
		{
			name:      "TokenExpired wraps ErrTokenExpired",
			err:       TokenExpired(),
			target:    ErrTokenExpired,
			wantMatch: true,
		},
		{
			name:      "UnknownEmail wraps ErrUnknownEmail",
			err:       UnknownEmail(),
			target:    ErrUnknownEmail,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials does NOT match ErrStorage",
			err:       InvalidCredentials(),
			target:    ErrStorage,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("post", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("post", "abc123"),
			wantMessage: "post not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("username", "Username is required."),
			wantMessage: "Username is required.",
		},
		{
			name:        "Conflict passes the message through verbatim",
			err:         Conflict("User alice or email a@x.com is already registered."),
			wantMessage: "User alice or email a@x.com is already registered.",
		},
		{
			name:        "InvalidCredentials has the unified login message",
			err:         InvalidCredentials(),
			wantMessage: "Incorrect email or password.",
		},
		{
			name:        "Storage hides the cause from the user",
			err:         Storage(errors.New("dial tcp: connection refused")),
			wantMessage: "Database error occurred.",
		},
		{
			name:        "TokenExpired message",
			err:         TokenExpired(),
			wantMessage: "The password reset link is expired.",
		},
		{
			name:        "UnknownEmail message",
			err:         UnknownEmail(),
			wantMessage: "Email does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("post", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Storage(cause)

	// The cause must survive wrapping so logs can report it.
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(Storage(cause), cause) = false, want true")
	}
	// Even through another layer of wrapping at the service boundary.
	wrapped := fmt.Errorf("service/auth: login: %w", err)
	if !errors.Is(wrapped, ErrStorage) {
		t.Errorf("errors.Is(wrapped, ErrStorage) = false, want true")
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "Invalid email address.")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
