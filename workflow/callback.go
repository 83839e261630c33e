package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spetersoncode/pkextract/event"
)

// Callback observes step boundaries. It is a side channel only: nothing it
// does feeds back into state. A panicking callback fails the current step.
type Callback interface {
	Notify(e Event)
}

// CallbackFunc adapts a function to the Callback interface.
type CallbackFunc func(e Event)

// Notify calls f.
func (f CallbackFunc) Notify(e Event) { f(e) }

// Callbacks fans a notification out to every non-nil callback in order.
func Callbacks(cbs ...Callback) Callback {
	var list multiCallback
	for _, cb := range cbs {
		if cb != nil {
			list = append(list, cb)
		}
	}
	return list
}

type multiCallback []Callback

func (m multiCallback) Notify(e Event) {
	for _, cb := range m {
		cb.Notify(e)
	}
}

// ChannelCallback forwards notifications to ch without blocking.
func ChannelCallback(ch chan<- Event) Callback {
	return CallbackFunc(func(e Event) {
		event.Emit(ch, e)
	})
}

// LogCallback writes one structured record per notification.
func LogCallback(l *slog.Logger) Callback {
	return CallbackFunc(func(e Event) {
		attrs := []any{"run_id", e.RunID}
		if e.StepName != "" {
			attrs = append(attrs, "step", e.StepName)
		}

		switch e.Type {
		case event.StepStart:
			l.Info("step started", append(attrs, "description", e.Description)...)
		case event.StepEnd:
			l.Info("step finished", append(attrs,
				"output", e.Output,
				"prompt_tokens", e.Usage.PromptTokens,
				"completion_tokens", e.Usage.CompletionTokens,
				"total_tokens", e.Usage.TotalTokens)...)
			if e.Reasoning != "" {
				l.Debug("step reasoning", append(attrs, "reasoning", e.Reasoning)...)
			}
		case event.StepSkipped:
			l.Info("step skipped", append(attrs, "reason", e.Message)...)
		case event.RouteSelected:
			l.Info("route selected", append(attrs, "route", e.RouteName)...)
		case event.RetryFailed:
			l.Warn("answer rejected", append(attrs, "attempt", e.Attempt, "error", e.Error)...)
		case event.RunError:
			l.Error("run failed", append(attrs, "error", e.Error)...)
		case event.RunEnd:
			l.Info("run finished", append(attrs, "total_tokens", e.Usage.TotalTokens)...)
		default:
			l.Debug(string(e.Type), attrs...)
		}
	})
}

// streamCallback delivers every notification, blocking until the reader
// takes it or ctx is done.
func streamCallback(ctx context.Context, ch chan<- Event) Callback {
	return CallbackFunc(func(e Event) {
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}
		select {
		case ch <- e:
		case <-ctx.Done():
		}
	})
}

// notify calls cb, converting a panic into an error.
func notify(cb Callback, e Event) (err error) {
	if cb == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
	}()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	cb.Notify(e)
	return nil
}
