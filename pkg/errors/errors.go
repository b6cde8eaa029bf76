package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a malformed request or out-of-domain value
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates the operation conflicts with current state
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates unauthorized access
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeCapture indicates a media capture failure
	ErrorTypeCapture ErrorType = "CAPTURE"

	// ErrorTypeNetwork indicates a transient transport failure (retryable)
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeServerRejected indicates the remote API answered with its own
	// success flag set to false (not retryable with the same input)
	ErrorTypeServerRejected ErrorType = "SERVER_REJECTED"

	// ErrorTypeInvalidInput indicates the scoring engine was handed an
	// unusable input set
	ErrorTypeInvalidInput ErrorType = "INVALID_INPUT"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error

	// Reason carries a machine-readable failure cause reported by the
	// capture device, when one is known. Empty for all other error types.
	Reason string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the error may succeed on a user-initiated retry
// with the same input. Only transient network failures qualify.
func (e *AppError) Retryable() bool {
	return e.Type == ErrorTypeNetwork
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the error type of err, or ErrorTypeInternal for plain errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewCaptureError creates a new capture error
func NewCaptureError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCapture,
		Message: message,
		Err:     err,
	}
}

// NewCaptureErrorWithReason creates a capture error carrying the failure
// cause the capture device reported
func NewCaptureErrorWithReason(message, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeCapture,
		Message: message,
		Reason:  reason,
	}
}

// NewNetworkError creates a new transient network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewServerRejectedError creates a new server-rejected error
func NewServerRejectedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeServerRejected,
		Message: message,
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
	}
}
