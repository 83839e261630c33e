package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey indicates a step's input is absent from state.
	ErrMissingKey = errors.New("workflow: missing state key")

	// ErrInvalidRoute indicates a branch picked a node outside its targets.
	ErrInvalidRoute = errors.New("workflow: branch selected an undeclared target")

	// ErrInvalidGraph indicates the graph failed validation.
	ErrInvalidGraph = errors.New("workflow: invalid graph")

	// ErrCallbackPanic indicates an observer panicked during a notification.
	ErrCallbackPanic = errors.New("workflow: callback panicked")
)

// StepError wraps errors from step execution.
type StepError struct {
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// GraphError lists every problem found while compiling a graph.
type GraphError struct {
	Graph    string
	Problems []string
}

func (e *GraphError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("workflow: graph %q: %s", e.Graph, e.Problems[0])
	}
	return fmt.Sprintf("workflow: graph %q has %d problems: %v", e.Graph, len(e.Problems), e.Problems)
}

func (e *GraphError) Unwrap() error {
	return ErrInvalidGraph
}
