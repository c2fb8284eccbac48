package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Booking not found"},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Failed to create booking",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: Failed to create booking (caused by: connection reset)",
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

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Hotel"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad dates", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("rooms required"), CodeInvalidInput, http.StatusBadRequest},
		{"capacity", Capacity("not enough room", nil), CodeCapacity, http.StatusBadRequest},
		{"invalid state", InvalidState("Booking is not reserved"), CodeInvalidState, http.StatusBadRequest},
		{"unauthorized", Unauthorized("login required"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not your hotel"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("hotel is busy"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Kafka"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "65f1c0d2a1b2c3d4e5f60718")

	if err.Message != "Booking not found" {
		t.Errorf("expected message 'Booking not found', got %s", err.Message)
	}
	if err.Details["id"] != "65f1c0d2a1b2c3d4e5f60718" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Booking" {
		t.Errorf("expected resource 'Booking', got %v", err.Details["resource"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Capacity("not enough room", map[string]any{"roomType": "deluxe"})
	wrapped := fmt.Errorf("create: %w", appErr)
	regularErr := errors.New("regular error")

	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap to the same AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(InvalidState("Booking is not checkedIn"), CodeInvalidState) {
		t.Errorf("HasCode() should match the error code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Errorf("HasCode() should be false for non-AppError")
	}
	if !IsAppError(fmt.Errorf("ctx: %w", NotFound("Hotel"))) {
		t.Errorf("IsAppError() should see through wrapping")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := Capacity("not enough room", map[string]any{"roomType": "standard"})

	var decoded ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", jsonErr)
	}
	if decoded.Success {
		t.Errorf("error response must carry success=false")
	}
	if decoded.Msg != "not enough room" {
		t.Errorf("expected msg 'not enough room', got %q", decoded.Msg)
	}
	if decoded.Code != CodeCapacity {
		t.Errorf("expected code %s, got %s", CodeCapacity, decoded.Code)
	}
	if decoded.Details["roomType"] != "standard" {
		t.Errorf("expected roomType detail, got %v", decoded.Details["roomType"])
	}
}
