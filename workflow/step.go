package workflow

import (
	"context"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
)

// Step represents a single node of a workflow.
// Run reads the step's inputs from state, does its work and writes its
// outputs back; keys outside the step's outputs must be left untouched.
type Step interface {
	// Name returns a unique identifier for the step.
	Name() string

	// Description is the human-readable text sent when the step starts.
	Description() string

	// Run executes the step against state.
	Run(ctx context.Context, state *State) (*StepResult, error)
}

// StepResult contains the output of a single step execution.
type StepResult struct {
	// StepName identifies which step produced this result.
	StepName string

	// Raw is the schema-conforming model answer, if any.
	Raw any

	// Output is the processed value written to state.
	Output any

	// Summary is the human-readable completion message.
	Summary string

	// Reasoning is the model's reasoning text, if any.
	Reasoning string

	// Usage tracks token consumption.
	Usage ai.TokenUsage

	// Skipped is true when the step decided no work was needed.
	Skipped bool
}

// Execute runs one step: notify start, run, notify completion. A failure is
// returned as a *StepError; a panicking callback is a failure too.
func Execute(ctx context.Context, step Step, state *State, cb Callback) (*StepResult, error) {
	name := step.Name()

	if err := notify(cb, Event{
		Type:        event.StepStart,
		StepName:    name,
		Description: step.Description(),
	}); err != nil {
		return nil, &StepError{StepName: name, Err: err}
	}

	res, err := step.Run(ctx, state)
	if err != nil {
		return res, &StepError{StepName: name, Err: err}
	}
	if res == nil {
		res = &StepResult{}
	}
	res.StepName = name

	if res.Skipped {
		if err := notify(cb, Event{
			Type:     event.StepSkipped,
			StepName: name,
			Message:  res.Summary,
		}); err != nil {
			return res, &StepError{StepName: name, Err: err}
		}
	}

	if err := notify(cb, Event{
		Type:      event.StepEnd,
		StepName:  name,
		Output:    res.Summary,
		Reasoning: res.Reasoning,
		Usage:     res.Usage,
	}); err != nil {
		return res, &StepError{StepName: name, Err: err}
	}
	return res, nil
}

// StepFunc is a function signature for deterministic steps. The returned
// string is the completion message.
type StepFunc func(ctx context.Context, state *State) (string, error)

// FuncStep wraps a function as a Step. It makes no model call.
type FuncStep struct {
	name        string
	description string
	fn          StepFunc
}

// NewFuncStep creates a step from a function.
func NewFuncStep(name, description string, fn StepFunc) *FuncStep {
	return &FuncStep{name: name, description: description, fn: fn}
}

// Name returns the step name.
func (f *FuncStep) Name() string { return f.name }

// Description returns the step description.
func (f *FuncStep) Description() string { return f.description }

// Run executes the function.
func (f *FuncStep) Run(ctx context.Context, state *State) (*StepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary, err := f.fn(ctx, state)
	if err != nil {
		return nil, err
	}
	return &StepResult{
		StepName: f.name,
		Summary:  summary,
	}, nil
}
