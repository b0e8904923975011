package ai

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy is an explicit retry-with-exponential-backoff policy.
// The zero value is not usable; start from DefaultRetryPolicy.
//
// Sleep exists so tests can drive the policy with a fake clock; when nil,
// a context-aware timer sleep is used.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy mirrors the provider guidance: three attempts with
// delays of BaseDelay, 2x, 4x between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// Do runs operation until it succeeds, attempts are exhausted, or the
// context is canceled. The error from the last attempt is returned when all
// attempts fail.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		if attempt == p.MaxAttempts {
			break
		}

		// Exponential backoff: BaseDelay * 2^(attempt-1)
		delay := p.BaseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
