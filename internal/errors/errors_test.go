package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("bad input", nil)
	if err.Error() != "validation: bad input" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	cause := fmt.Errorf("boom")
	wrapped := NewNetworkError("fetch failed", cause)
	if wrapped.Error() != "network: fetch failed (caused by: boom)" {
		t.Errorf("Unexpected message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected wrapped error to unwrap to its cause")
	}
}

func TestSentinels(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"Shape mismatch", NewShapeMismatchError("3x3x1 vs 2x2x1"), ErrShapeMismatch},
		{"Kernel size", NewInvalidKernelSizeError("size 4"), ErrInvalidKernelSize},
		{"Kernel shape", NewInvalidKernelShapeError("2x3"), ErrInvalidKernelShape},
		{"Validation", NewValidationError("nope", nil), ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Errorf("Expected %v to match sentinel", tc.err)
			}
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if !errors.Is(wrapped, tc.sentinel) {
				t.Errorf("Expected wrapped %v to match sentinel", tc.err)
			}
		})
	}

	if errors.Is(NewShapeMismatchError("x"), ErrInvalidKernelSize) {
		t.Error("Different types must not match")
	}
}

func TestIsTypeAndStatusCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewShapeMismatchError("mismatch"))

	if !IsType(err, ErrorTypeShapeMismatch) {
		t.Error("Expected IsType to see through wrapping")
	}
	if IsType(err, ErrorTypeValidation) {
		t.Error("Expected IsType to reject other types")
	}
	if code := GetStatusCode(err); code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", code)
	}
	if code := GetStatusCode(fmt.Errorf("plain")); code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for plain errors, got %d", code)
	}
}

func TestWithDetails(t *testing.T) {
	base := NewInvalidKernelSizeError("kernel size must be odd")
	detailed := base.WithDetails("got %d", 4)

	if detailed.Details != "got 4" {
		t.Errorf("Expected details 'got 4', got %q", detailed.Details)
	}
	if base.Details != "" {
		t.Error("WithDetails must not modify the receiver")
	}
}
