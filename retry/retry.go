package retry

import (
	"context"
	"time"

	"github.com/spetersoncode/pkextract"
)

// effectiveDelay returns the delay to use, honoring server's Retry-After if larger.
func effectiveDelay(configuredDelay time.Duration, err error) time.Duration {
	if serverDelay := pkextract.RetryAfterOf(err); serverDelay > configuredDelay {
		return serverDelay
	}
	return configuredDelay
}

// Do executes the given function with retry logic.
// It respects context cancellation during backoff waits.
// Returns the result on success, or the last error if all attempts fail.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is like Do but emits events for observability.
// Events are sent non-blocking; if the channel is full, events are dropped.
// Pass nil for events to disable event emission (equivalent to Do).
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	return DoAttempts(ctx, cfg, events, IsTransient, func(int) (T, error) { return fn() })
}

// DoAttempts is the retry loop shared by Do and DoWithEvents. fn receives the
// 0-indexed attempt number; retryable decides whether a failure may consume
// another attempt. A nil retryable treats every error as final.
func DoAttempts[T any](ctx context.Context, cfg Config, events chan<- Event, retryable func(error) bool, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error
	maxAttempts := cfg.Attempts()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		emit(events, Event{
			Type:        EventAttemptStart,
			Attempt:     attempt + 1,
			MaxAttempts: maxAttempts,
		})

		result, err := fn(attempt)
		if err == nil {
			emit(events, Event{
				Type:        EventSuccess,
				Attempt:     attempt + 1,
				MaxAttempts: maxAttempts,
			})
			return result, nil
		}

		lastErr = err
		canRetry := retryable != nil && retryable(err)

		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt + 1,
			MaxAttempts: maxAttempts,
			Error:       err,
			Retryable:   canRetry,
		})

		if !canRetry {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < maxAttempts-1 {
			delay := effectiveDelay(cfg.Delay(attempt), err)

			emit(events, Event{
				Type:        EventRetrying,
				Attempt:     attempt + 1,
				MaxAttempts: maxAttempts,
				Delay:       delay,
				Error:       err,
			})

			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
	}

	emit(events, Event{
		Type:        EventExhausted,
		Attempt:     maxAttempts,
		MaxAttempts: maxAttempts,
		Error:       lastErr,
	})

	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
