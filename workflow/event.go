package workflow

import (
	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
)

// Event is an alias to the unified event type.
// Workflow events use these event.Type values:
//   - event.RunStart, event.RunEnd, event.RunError
//   - event.StepStart, event.StepEnd, event.StepSkipped
//   - event.RouteSelected
type Event = event.Event

// TerminationReason indicates why the workflow stopped.
type TerminationReason string

const (
	// TerminationComplete indicates the terminal node finished.
	TerminationComplete TerminationReason = "complete"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError indicates a node failed.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of workflow execution.
type Result struct {
	// WorkflowName identifies the workflow.
	WorkflowName string

	// RunID correlates the run's events.
	RunID string

	// State is the state after the last executed node. On failure it holds
	// the outputs of every node that completed.
	State *State

	// Trace lists the executed nodes in order.
	Trace []string

	// Steps holds each node's result, in trace order.
	Steps []*StepResult

	// Usage sums the usage of every executed node.
	Usage ai.TokenUsage

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// Error contains any error that caused termination.
	Error error
}
