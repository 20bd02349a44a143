package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{"not found", NotFound("Vehicle"), http.StatusNotFound},
		{"validation", Validation("bad input", nil), http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), http.StatusBadRequest},
		{"invalid date", InvalidDate("bad date"), http.StatusBadRequest},
		{"conflict", Conflict("slot taken"), http.StatusConflict},
		{"internal", Internal("boom", nil), http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Allocation store", nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.expected {
				t.Errorf("StatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Conflict("slot taken")
	if !HasCode(err, CodeConflict) {
		t.Error("expected HasCode to match direct AppError")
	}

	wrapped := fmt.Errorf("creating allocation: %w", err)
	if !HasCode(wrapped, CodeConflict) {
		t.Error("expected HasCode to match wrapped AppError")
	}

	if HasCode(errors.New("plain"), CodeConflict) {
		t.Error("plain errors must not match")
	}
	if HasCode(nil, CodeConflict) {
		t.Error("nil must not match")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("store write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAsAppError_WrapsUnknown(t *testing.T) {
	appErr := AsAppError(errors.New("mystery"))
	if appErr.Code != CodeInternal {
		t.Errorf("unknown errors should surface as internal, got %s", appErr.Code)
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", appErr.StatusCode())
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Allocation", "507f1f77bcf86cd799439031")
	if err.Details["id"] != "507f1f77bcf86cd799439031" {
		t.Errorf("expected ID detail, got %v", err.Details)
	}
}
