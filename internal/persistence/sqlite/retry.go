package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// retryPolicy retries writes that fail because another connection holds the
// database lock.
type retryPolicy struct {
	maxRetries    int
	initialDelay  time.Duration
	maxDelay      time.Duration
	backoffFactor float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxRetries:    3,
		initialDelay:  50 * time.Millisecond,
		maxDelay:      time.Second,
		backoffFactor: 2.0,
	}
}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := p.initialDelay

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
				if delay > p.maxDelay {
					delay = p.maxDelay
				}
			}
		}

		lastErr = fn()
		if lastErr == nil || !isBusy(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("database stayed locked after %d retries: %w", p.maxRetries, lastErr)
}

// isBusy reports SQLITE_BUSY and SQLITE_LOCKED failures.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"database is locked", "database table is locked", "sqlite_busy"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
