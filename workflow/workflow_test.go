package workflow

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
)

// recorder collects notifications.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// writer returns a step that records its own name under key and adds usage.
func writer(name, key string, usage ai.TokenUsage) Step {
	return &usageStep{name: name, key: key, usage: usage}
}

type usageStep struct {
	name  string
	key   string
	usage ai.TokenUsage
}

func (s *usageStep) Name() string        { return s.name }
func (s *usageStep) Description() string { return "writes " + s.key }
func (s *usageStep) Run(_ context.Context, state *State) (*StepResult, error) {
	state.Set(s.key, s.name)
	return &StepResult{Summary: s.name + " done", Usage: s.usage}, nil
}

func diamond(t *testing.T, branch Branch) *Workflow {
	t.Helper()
	wf, err := NewGraph("diamond").
		AddNode(writer("split", "split_out", ai.Usage(1, 1))).
		AddNode(writer("auto", "match", ai.ZeroUsage)).
		AddNode(writer("agent", "match", ai.Usage(10, 5))).
		AddNode(writer("cleanup", "combined", ai.Usage(0, 0))).
		SetEntry("split").
		AddConditionalEdges("split", branch, "auto", "agent").
		AddEdge("auto", "cleanup").
		AddEdge("agent", "cleanup").
		SetFinish("cleanup").
		Compile()
	require.NoError(t, err)
	return wf
}

func TestWorkflow_Run(t *testing.T) {
	t.Run("threads state along the selected path", func(t *testing.T) {
		wf := diamond(t, always("agent"))
		state := NewStateFrom(map[string]any{"table": "| a |"})

		res, err := wf.Run(context.Background(), state)

		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, res.Termination)
		assert.Equal(t, []string{"split", "agent", "cleanup"}, res.Trace)
		assert.Same(t, state, res.State)
		assert.Equal(t, "agent", state.GetString("match"))
		assert.Equal(t, "cleanup", state.GetString("combined"))
		assert.Equal(t, ai.Usage(11, 6), res.Usage)
		assert.NotEmpty(t, res.RunID)
		require.Len(t, res.Steps, 3)
		assert.Equal(t, "split done", res.Steps[0].Summary)
	})

	t.Run("nil state", func(t *testing.T) {
		res, err := diamond(t, always("auto")).Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "auto", res.State.GetString("match"))
	})

	t.Run("every node at most once and one terminal", func(t *testing.T) {
		for _, target := range []string{"auto", "agent"} {
			res, err := diamond(t, always(target)).Run(context.Background(), NewState())
			require.NoError(t, err)

			seen := map[string]bool{}
			for _, name := range res.Trace {
				assert.False(t, seen[name], "node %s executed twice", name)
				seen[name] = true
			}
			assert.Equal(t, "cleanup", res.Trace[len(res.Trace)-1])
		}
	})

	t.Run("branch exclusivity", func(t *testing.T) {
		branch := When(func(s *State) bool { return s.GetString("kind") == "single" }, "auto", "agent")

		for _, kind := range []string{"single", "many"} {
			for i := 0; i < 3; i++ {
				state := NewStateFrom(map[string]any{"kind": kind})
				res, err := diamond(t, branch).Run(context.Background(), state)
				require.NoError(t, err)

				want := "agent"
				if kind == "single" {
					want = "auto"
				}
				assert.Equal(t, []string{"split", want, "cleanup"}, res.Trace)
			}
		}
	})

	t.Run("undeclared branch target", func(t *testing.T) {
		res, err := diamond(t, always("cleanup")).Run(context.Background(), NewState())

		assert.ErrorIs(t, err, ErrInvalidRoute)
		assert.Equal(t, TerminationError, res.Termination)
		assert.Equal(t, []string{"split"}, res.Trace)
	})

	t.Run("branch error", func(t *testing.T) {
		boom := errors.New("boom")
		res, err := diamond(t, func(context.Context, *State) (string, error) { return "", boom }).
			Run(context.Background(), NewState())

		assert.ErrorIs(t, err, boom)
		var se *StepError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "split", se.StepName)
		assert.Equal(t, TerminationError, res.Termination)
	})
}

func TestWorkflow_NodeFailureAborts(t *testing.T) {
	boom := errors.New("missing value column")
	failing := NewFuncStep("agent", "", func(context.Context, *State) (string, error) { return "", boom })
	wf, err := NewGraph("g").
		AddNode(writer("split", "split_out", ai.Usage(3, 2))).
		AddNode(failing).
		AddNode(writer("cleanup", "combined", ai.ZeroUsage)).
		AddEdge("split", "agent").AddEdge("agent", "cleanup").
		SetEntry("split").SetFinish("cleanup").
		Compile()
	require.NoError(t, err)

	rec := &recorder{}
	state := NewState()
	res, err := wf.Run(context.Background(), state, WithCallback(rec))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "agent", se.StepName)

	assert.Equal(t, TerminationError, res.Termination)
	assert.Equal(t, "split", state.GetString("split_out"))
	assert.False(t, state.Has("combined"))
	assert.Equal(t, ai.Usage(3, 2), res.Usage)
	assert.Equal(t, []event.Type{
		event.RunStart,
		event.StepStart, event.StepEnd,
		event.StepStart,
		event.RunError,
	}, rec.types())
}

func TestWorkflow_UntouchedKeys(t *testing.T) {
	wf := diamond(t, always("auto"))
	table := [][]string{{"a", "b"}}
	state := NewStateFrom(map[string]any{
		"table":   table,
		"caption": "Table 1",
		"rows":    5,
	})
	before := state.Snapshot()

	_, err := wf.Run(context.Background(), state)
	require.NoError(t, err)

	after := state.Snapshot()
	written := map[string]bool{"split_out": true, "match": true, "combined": true}
	for k, v := range after {
		if written[k] {
			continue
		}
		assert.True(t, reflect.DeepEqual(before[k], v), "key %q changed", k)
	}
	assert.Equal(t, len(before)+len(written), len(after))
}

func TestWorkflow_Callbacks(t *testing.T) {
	t.Run("event order and run id", func(t *testing.T) {
		rec := &recorder{}
		res, err := diamond(t, always("auto")).Run(context.Background(), NewState(), WithCallback(rec), WithRunID("run-1"))
		require.NoError(t, err)
		assert.Equal(t, "run-1", res.RunID)

		assert.Equal(t, []event.Type{
			event.RunStart,
			event.StepStart, event.StepEnd, event.RouteSelected,
			event.StepStart, event.StepEnd,
			event.StepStart, event.StepEnd,
			event.RunEnd,
		}, rec.types())

		for _, e := range rec.events {
			assert.Equal(t, "run-1", e.RunID)
			assert.False(t, e.Timestamp.IsZero())
		}
		assert.Equal(t, "auto", rec.events[3].RouteName)
		assert.Equal(t, "writes split_out", rec.events[1].Description)
		assert.Equal(t, "split done", rec.events[2].Output)
	})

	t.Run("seeded callback", func(t *testing.T) {
		rec := &recorder{}
		state := NewState()
		Set[Callback](state, KeyCallback, rec)

		_, err := diamond(t, always("auto")).Run(context.Background(), state)
		require.NoError(t, err)
		assert.NotEmpty(t, rec.types())
	})

	t.Run("panicking callback fails the step", func(t *testing.T) {
		cb := CallbackFunc(func(e Event) {
			if e.Type == event.StepEnd && e.StepName == "split" {
				panic("observer broke")
			}
		})

		res, err := diamond(t, always("auto")).Run(context.Background(), NewState(), WithCallback(cb))

		assert.ErrorIs(t, err, ErrCallbackPanic)
		var se *StepError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "split", se.StepName)
		assert.Equal(t, TerminationError, res.Termination)
	})
}

func TestWorkflow_Timeouts(t *testing.T) {
	slow := NewFuncStep("slow", "", func(ctx context.Context, _ *State) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	})
	wf, err := NewGraph("g").AddNode(slow).SetEntry("slow").SetFinish("slow").Compile()
	require.NoError(t, err)

	t.Run("step timeout", func(t *testing.T) {
		res, err := wf.Run(context.Background(), NewState(), WithStepTimeout(10*time.Millisecond))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, TerminationTimeout, res.Termination)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := wf.Run(ctx, NewState())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, TerminationCancelled, res.Termination)
		assert.Empty(t, res.Trace)
	})
}

func TestWorkflow_RunStream(t *testing.T) {
	wf := diamond(t, always("agent"))

	var types []event.Type
	var last Event
	for e := range wf.RunStream(context.Background(), NewState()) {
		types = append(types, e.Type)
		last = e
	}

	assert.Equal(t, event.RunStart, types[0])
	assert.Equal(t, event.RunEnd, last.Type)
	assert.Equal(t, ai.Usage(11, 6), last.Usage)
	assert.Len(t, types, 9)
}

func ExampleGraph() {
	wf, err := NewGraph("example").
		AddNode(NewFuncStep("hello", "say hello", func(_ context.Context, s *State) (string, error) {
			s.Set("greeting", "hello")
			return "greeted", nil
		})).
		SetEntry("hello").
		SetFinish("hello").
		Compile()
	if err != nil {
		panic(err)
	}

	res, _ := wf.Run(context.Background(), NewState())
	fmt.Println(res.Trace, res.State.GetString("greeting"))
	// Output: [hello] hello
}
