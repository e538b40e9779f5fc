// Package common holds the error values, logging setup and retry helper
// shared by the rest of fanplan.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Cache errors.
	ErrCacheCorrupted = errors.New("recommendation cache corrupted")

	// Similar-user lookup errors.
	ErrLookupUnavailable = errors.New("similar-user lookup unavailable")

	// Knowledge base errors.
	ErrInvalidKnowledge = errors.New("invalid knowledge base")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person at the terminal along
// with the underlying cause, which is only logged.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err with a message for the CLI to print.
func NewUserError(userMessage string, err error) error {
	return &UserError{Err: err, UserMessage: userMessage}
}

// IsRetryable reports whether err points at a transient backend problem
// (rate limiting, an unavailable lookup, a timeout) rather than a bad request.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrRateLimit),
		errors.Is(err, ErrLookupUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var re *RetryableError
	return errors.As(err, &re) && re.Retryable
}
