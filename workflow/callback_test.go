package workflow

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
)

func TestCallbacks(t *testing.T) {
	t.Run("fan out skips nil", func(t *testing.T) {
		a, b := &recorder{}, &recorder{}
		cb := Callbacks(a, nil, b)
		cb.Notify(Event{Type: event.StepStart})

		assert.Len(t, a.events, 1)
		assert.Len(t, b.events, 1)
	})

	t.Run("channel callback never blocks", func(t *testing.T) {
		ch := make(chan Event, 1)
		cb := ChannelCallback(ch)
		cb.Notify(Event{Type: event.StepStart})
		cb.Notify(Event{Type: event.StepEnd})

		require.Len(t, ch, 1)
		assert.Equal(t, event.StepStart, (<-ch).Type)
	})

	t.Run("notify recovers panics", func(t *testing.T) {
		err := notify(CallbackFunc(func(Event) { panic("x") }), Event{})
		assert.ErrorIs(t, err, ErrCallbackPanic)
		assert.NoError(t, notify(nil, Event{}))
	})
}

func TestLogCallback(t *testing.T) {
	var buf bytes.Buffer
	cb := LogCallback(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cb.Notify(Event{Type: event.StepStart, RunID: "r1", StepName: "drug_info", Description: "Extracting drug information"})
	cb.Notify(Event{Type: event.StepEnd, RunID: "r1", StepName: "drug_info", Output: "2 drugs", Reasoning: "because", Usage: ai.Usage(5, 5)})
	cb.Notify(Event{Type: event.RouteSelected, RunID: "r1", StepName: "drug_info", RouteName: "drug_matching_agent"})
	cb.Notify(Event{Type: event.RunError, RunID: "r1", Error: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, `msg="step started"`)
	assert.Contains(t, out, "step=drug_info")
	assert.Contains(t, out, "total_tokens=10")
	assert.Contains(t, out, "reasoning=because")
	assert.Contains(t, out, "route=drug_matching_agent")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "run_id=r1")
}
