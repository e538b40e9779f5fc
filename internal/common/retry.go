package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/fanplan/internal/service"
)

var (
	// ErrRateLimit is returned when a backend answers 429.
	ErrRateLimit = errors.New("rate limit exceeded")
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError tells WithRetry whether, and how soon, to try again.
type RetryableError struct {
	Err       error
	Retryable bool
	// RetryAfter, when set, is the wait the remote side asked for.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func withRetryDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}

// WithRetry runs operation until it succeeds, returns a non-retryable error,
// or runs out of attempts. It gives up early when the context deadline
// would pass before the next attempt could start.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withRetryDefaults(opts)
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var retryableErr *RetryableError
		hasMeta := errors.As(err, &retryableErr)
		if hasMeta && !retryableErr.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
		}

		wait := delay
		switch {
		case hasMeta && retryableErr.RetryAfter > 0:
			wait = min(retryableErr.RetryAfter, opts.MaxDelay)
		case errors.Is(err, ErrRateLimit):
			wait = opts.MaxDelay
		}

		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			return fmt.Errorf("no time left to retry: %w", err)
		}

		LoggerFrom(ctx).Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}
