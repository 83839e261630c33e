package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/spetersoncode/pkextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransientError simulates a transient network error.
type mockTransientError struct {
	msg string
}

func (e *mockTransientError) Error() string   { return e.msg }
func (e *mockTransientError) Timeout() bool   { return true }
func (e *mockTransientError) Temporary() bool { return true }

var _ net.Error = (*mockTransientError)(nil)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	callCount := 0

	result, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestDoRetryOnTransientError(t *testing.T) {
	callCount := 0
	transientErr := &mockTransientError{msg: "timeout"}

	result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", transientErr
		}
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, callCount)
}

func TestDoNoRetryOnPermanentError(t *testing.T) {
	callCount := 0
	permanentErr := errors.New("permanent error")

	_, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
		callCount++
		return "", permanentErr
	})

	assert.Equal(t, permanentErr, err)
	assert.Equal(t, 1, callCount)
}

func TestDoExhaustsRetries(t *testing.T) {
	callCount := 0
	transientErr := &mockTransientError{msg: "timeout"}

	_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		return "", transientErr
	})

	assert.Equal(t, transientErr, err)
	assert.Equal(t, 3, callCount)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   1.0,
	}

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		callCount++
		return "", &mockTransientError{msg: "timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func TestDoHonorsRetryAfter(t *testing.T) {
	cfg := Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	events := make(chan Event, 10)
	calls := 0

	_, err := DoWithEvents(context.Background(), cfg, events, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, pkextract.NewTransientErrorWithRetry("slow down", 429, 20*time.Millisecond, nil)
		}
		return 1, nil
	})
	require.NoError(t, err)
	close(events)

	var retrying *Event
	for ev := range events {
		if ev.Type == EventRetrying {
			retrying = &ev
		}
	}
	require.NotNil(t, retrying)
	assert.Equal(t, 20*time.Millisecond, retrying.Delay)
}

func TestDoWithEventsSequence(t *testing.T) {
	events := make(chan Event, 20)
	transientErr := &mockTransientError{msg: "timeout"}

	_, err := DoWithEvents(context.Background(), fastConfig(2), events, func() (string, error) {
		return "", transientErr
	})
	assert.Equal(t, transientErr, err)
	close(events)

	var types []EventType
	for ev := range events {
		assert.False(t, ev.Timestamp.IsZero())
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventAttemptStart, EventAttemptFailed, EventRetrying,
		EventAttemptStart, EventAttemptFailed,
		EventExhausted,
	}, types)
}

func TestDoWithEventsDropsWhenFull(t *testing.T) {
	events := make(chan Event) // unbuffered, nobody reading

	result, err := DoWithEvents(context.Background(), fastConfig(1), events, func() (int, error) {
		return 7, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, result)
}

func TestDoAttemptsCustomPredicate(t *testing.T) {
	errAgain := errors.New("again")
	errFatal := errors.New("fatal")
	retryable := func(err error) bool { return errors.Is(err, errAgain) }

	t.Run("passes attempt index", func(t *testing.T) {
		var seen []int
		_, err := DoAttempts(context.Background(), fastConfig(4), nil, retryable, func(attempt int) (int, error) {
			seen = append(seen, attempt)
			return 0, errAgain
		})
		assert.ErrorIs(t, err, errAgain)
		assert.Equal(t, []int{0, 1, 2, 3}, seen)
	})

	t.Run("stops on non-retryable", func(t *testing.T) {
		calls := 0
		_, err := DoAttempts(context.Background(), fastConfig(4), nil, retryable, func(attempt int) (int, error) {
			calls++
			if attempt == 1 {
				return 0, errFatal
			}
			return 0, errAgain
		})
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 2, calls)
	})

	t.Run("nil predicate is single shot", func(t *testing.T) {
		calls := 0
		_, err := DoAttempts(context.Background(), fastConfig(4), nil, nil, func(int) (int, error) {
			calls++
			return 0, errAgain
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context never calls fn", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := DoAttempts(ctx, fastConfig(4), nil, retryable, func(int) (int, error) {
			calls++
			return 0, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})
}
