package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeProcessing         ErrorType = "processing"
	ErrorTypeTimeout            ErrorType = "timeout"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeInternal           ErrorType = "internal"
	ErrorTypeStorage            ErrorType = "storage"
	ErrorTypeShapeMismatch      ErrorType = "shape_mismatch"
	ErrorTypeInvalidKernelSize  ErrorType = "invalid_kernel_size"
	ErrorTypeInvalidKernelShape ErrorType = "invalid_kernel_shape"
)

// Sentinels for errors.Is. They match any AppError of the same type.
var (
	ErrShapeMismatch      = &AppError{Type: ErrorTypeShapeMismatch}
	ErrInvalidKernelSize  = &AppError{Type: ErrorTypeInvalidKernelSize}
	ErrInvalidKernelShape = &AppError{Type: ErrorTypeInvalidKernelShape}
	ErrValidation         = &AppError{Type: ErrorTypeValidation}
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type. A target
// carrying a message must also match it exactly.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Type != e.Type {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// WithDetails returns a copy of the error with details attached
func (e *AppError) WithDetails(format string, args ...interface{}) *AppError {
	cp := *e
	cp.Details = fmt.Sprintf(format, args...)
	return &cp
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProcessing,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewStorageError creates a new error for result storage failures
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewShapeMismatchError reports two images whose dimensions differ
func NewShapeMismatchError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeShapeMismatch,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// NewInvalidKernelSizeError reports a blur size that is not a positive odd integer
func NewInvalidKernelSizeError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidKernelSize,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidKernelShapeError reports a kernel matrix that is not square with an odd side
func NewInvalidKernelShapeError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidKernelShape,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
