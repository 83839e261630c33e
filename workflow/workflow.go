package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/pkextract/event"
)

// Workflow is a compiled graph. It is immutable and safe to run
// concurrently, provided each run gets its own State.
type Workflow struct {
	name     string
	nodes    map[string]Step
	edges    map[string]string
	branches map[string]conditional
	entry    string
	finish   string
	order    []string
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Nodes returns the node names in topological order.
func (w *Workflow) Nodes() []string {
	return append([]string(nil), w.order...)
}

// Run walks the graph from the entry node to the finish node, one node at a
// time, threading state through every step. The first failing node aborts
// the run; state keeps what earlier nodes wrote.
func (w *Workflow) Run(ctx context.Context, state *State, opts ...Option) (*Result, error) {
	if state == nil {
		state = NewState()
	}
	options := ApplyOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	runID := options.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var cb Callback
	if seeded, ok := Get(state, KeyCallback); ok && seeded != nil {
		cb = seeded
	}
	if options.Callback != nil {
		cb = Callbacks(cb, options.Callback)
	}
	cb = stampRunID(cb, runID)

	result := &Result{
		WorkflowName: w.name,
		RunID:        runID,
		State:        state,
	}

	fail := func(err error) (*Result, error) {
		result.Error = err
		result.Termination = terminationFor(ctx, err)
		_ = notify(cb, Event{Type: event.RunError, Error: err, Usage: result.Usage})
		return result, err
	}

	if err := notify(cb, Event{Type: event.RunStart, Message: w.name}); err != nil {
		return fail(err)
	}

	visited := make(map[string]bool, len(w.nodes))
	current := w.entry
	for {
		if visited[current] {
			return fail(fmt.Errorf("workflow: node %q visited twice", current))
		}
		visited[current] = true

		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		res, err := w.runNode(ctx, current, state, cb, options.StepTimeout)
		result.Trace = append(result.Trace, current)
		if res != nil {
			result.Steps = append(result.Steps, res)
			result.Usage = result.Usage.Add(res.Usage)
		}
		if err != nil {
			return fail(err)
		}

		if current == w.finish {
			break
		}

		next, err := w.next(ctx, current, state, cb)
		if err != nil {
			return fail(err)
		}
		current = next
	}

	result.Termination = TerminationComplete
	_ = notify(cb, Event{
		Type:    event.RunEnd,
		Usage:   result.Usage,
		Message: string(TerminationComplete),
	})
	return result, nil
}

// RunStream runs the workflow in the background and returns its events.
// The channel is closed when the run ends; the final event is RunEnd or
// RunError. Callers must drain the channel.
func (w *Workflow) RunStream(ctx context.Context, state *State, opts ...Option) <-chan Event {
	ch := event.NewChannel()
	go func() {
		defer close(ch)
		opts = append(opts, WithCallback(streamCallback(ctx, ch)))
		_, _ = w.Run(ctx, state, opts...)
	}()
	return ch
}

func (w *Workflow) runNode(ctx context.Context, name string, state *State, cb Callback, timeout time.Duration) (*StepResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Execute(ctx, w.nodes[name], state, cb)
}

// next resolves the successor of a node.
func (w *Workflow) next(ctx context.Context, from string, state *State, cb Callback) (string, error) {
	if to, ok := w.edges[from]; ok {
		return to, nil
	}

	c, ok := w.branches[from]
	if !ok {
		return "", fmt.Errorf("workflow: node %q has no successor", from)
	}
	to, err := c.branch(ctx, state)
	if err != nil {
		return "", &StepError{StepName: from, Err: err}
	}
	if !slices.Contains(c.targets, to) {
		return "", fmt.Errorf("%w: %q from %q (targets %v)", ErrInvalidRoute, to, from, c.targets)
	}
	if err := notify(cb, Event{
		Type:      event.RouteSelected,
		StepName:  from,
		RouteName: to,
	}); err != nil {
		return "", &StepError{StepName: from, Err: err}
	}
	return to, nil
}

func stampRunID(cb Callback, runID string) Callback {
	if cb == nil {
		return nil
	}
	return CallbackFunc(func(e Event) {
		e.RunID = runID
		cb.Notify(e)
	})
}

func terminationFor(ctx context.Context, err error) TerminationReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return TerminationTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return TerminationCancelled
	default:
		return TerminationError
	}
}
