package payment

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var DefaultBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff runs fn once and then retries it up to maxRetries times,
// sleeping backoffs[i] before retry i+1. Permanent errors and context
// cancellation stop the loop early.
func RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int, backoffs []time.Duration) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err
		if i == maxRetries {
			break
		}
		delay := time.Duration(0)
		if len(backoffs) > 0 {
			delay = backoffs[min(i, len(backoffs)-1)]
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
