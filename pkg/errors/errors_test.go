package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeInternal, "store unavailable", http.StatusInternalServerError)

	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the original cause")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "failed to persist booking",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: failed to persist booking (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHelperStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("Booking"), http.StatusNotFound},
		{NotFoundWithID("Booking", "abc"), http.StatusNotFound},
		{Validation("bad input", nil), http.StatusUnprocessableEntity},
		{InvalidInput("missing date"), http.StatusBadRequest},
		{Unauthorized("token rejected"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{Conflict("slot taken"), http.StatusConflict},
		{Internal("boom", nil), http.StatusInternalServerError},
		{Unavailable("store down"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		if tt.err.StatusCode() != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.err.Code, tt.status, tt.err.StatusCode())
		}
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Conflict("slot taken")) {
		t.Error("expected IsAppError true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("expected IsAppError false for plain error")
	}
}
