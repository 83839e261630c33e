package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	ch := make(chan Event, 1)

	Emit(ch, Event{Type: StepStart, StepName: "drug_info"})
	ev := <-ch
	assert.Equal(t, StepStart, ev.Type)
	assert.Equal(t, "drug_info", ev.StepName)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEmitDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: RunStart})
	Emit(ch, Event{Type: RunEnd}) // dropped

	assert.Len(t, ch, 1)
	assert.Equal(t, RunStart, (<-ch).Type)

	assert.NotPanics(t, func() { Emit(nil, Event{Type: RunError}) })
}

func TestNewChannel(t *testing.T) {
	assert.Equal(t, 100, cap(NewChannel()))
}
