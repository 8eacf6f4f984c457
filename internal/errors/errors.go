// Package errors provides shared error types used across multiple packages.
package errors

import (
	"errors"
	"fmt"
)

// NonRetryableError represents an error that should not be retried.
// Operations that encounter this error type should fail immediately
// without retry attempts.
type NonRetryableError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *NonRetryableError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *NonRetryableError) Unwrap() error {
	return e.cause
}

// NewNonRetryableError creates a new non-retryable error with a message and optional cause.
func NewNonRetryableError(message string, cause error) error {
	return &NonRetryableError{
		message: message,
		cause:   cause,
	}
}

// IsNonRetryable checks if an error is non-retryable.
func IsNonRetryable(err error) bool {
	if err == nil {
		return false
	}
	var nonRetryableErr *NonRetryableError
	return errors.As(err, &nonRetryableErr)
}
