// Package event provides the event type shared by the agent and workflow
// packages. Events are the side channel for progress reporting: they never
// carry data that later steps depend on.
package event

import (
	"time"

	ai "github.com/spetersoncode/pkextract"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a workflow run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a workflow run reaches its terminal node.
	RunEnd Type = "run_end"

	// RunError fires when a node fails and the run is aborted.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a step is entered.
	StepStart Type = "step_start"

	// StepEnd fires when a step has written its outputs.
	StepEnd Type = "step_end"

	// StepSkipped fires when a step decided no model call was needed.
	StepSkipped Type = "step_skipped"

	// RouteSelected fires when a conditional edge picks its successor.
	RouteSelected Type = "route_selected"
)

// Agent retry events
const (
	// RetryAttempt fires before each model call.
	RetryAttempt Type = "retry_attempt"

	// RetryFailed fires when an attempt was rejected and will be retried.
	RetryFailed Type = "retry_failed"

	// RetryExhausted fires when the attempt budget is spent.
	RetryExhausted Type = "retry_exhausted"
)

// Event represents an observable occurrence during a workflow run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID correlates events of one workflow run.
	RunID string

	// StepName identifies the step.
	StepName string

	// Description is the human-readable step description (StepStart).
	Description string

	// Output is the step's completion message (StepEnd).
	Output string

	// Reasoning is the model's reasoning text (StepEnd).
	Reasoning string

	// RouteName identifies the selected successor for RouteSelected events.
	RouteName string

	// Attempt is the 1-indexed attempt number for retry events.
	Attempt int

	// Usage is the token usage of the step (StepEnd) or of the run (RunEnd).
	Usage ai.TokenUsage

	// Error contains the error for RunError and RetryFailed events.
	Error error

	// Message contains additional context (correction message, termination reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel discards the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
