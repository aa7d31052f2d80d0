// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors. These are the only fatal ones; everything else
	// is recovered at the orchestrator boundary.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// LLM errors.
	ErrAnalysisFailed    = errors.New("llm analysis failed")
	ErrAnalysisTimeout   = errors.New("llm request timed out")
	ErrMalformedResponse = errors.New("malformed llm response")

	// Sheets errors.
	ErrSheetsConnection = errors.New("sheets connection failed")
	ErrSheetsOperation  = errors.New("sheets operation failed")

	// Activity validation errors.
	ErrUnknownActivity      = errors.New("unknown activity kind")
	ErrBelowMinimumDistance = errors.New("distance below minimum")
	ErrUnsupportedBonus     = errors.New("bonus not supported for activity kind")
)

// UserError represents an error whose message is meant for the end user,
// verbatim and in their language.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-facing error wrapping a sentinel.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the user-facing message from an error chain, falling
// back to the raw error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}

// WrapSheets tags an error as a sheets operation failure, preserving the
// original chain.
func WrapSheets(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSheetsOperation, op, err)
}
