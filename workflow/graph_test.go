package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(name string) *FuncStep {
	return NewFuncStep(name, "", func(context.Context, *State) (string, error) { return "", nil })
}

func always(target string) Branch {
	return func(context.Context, *State) (string, error) { return target, nil }
}

func graphProblems(t *testing.T, g *Graph) []string {
	t.Helper()
	_, err := g.Compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
	var ge *GraphError
	require.ErrorAs(t, err, &ge)
	return ge.Problems
}

func TestGraph_Compile(t *testing.T) {
	t.Run("linear graph", func(t *testing.T) {
		wf, err := NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).AddNode(noop("c")).
			AddEdge("a", "b").AddEdge("b", "c").
			SetEntry("a").SetFinish("c").
			Compile()

		require.NoError(t, err)
		assert.Equal(t, "g", wf.Name())
		assert.Equal(t, []string{"a", "b", "c"}, wf.Nodes())
	})

	t.Run("diamond with conditional edges", func(t *testing.T) {
		wf, err := NewGraph("g").
			AddNode(noop("a")).AddNode(noop("left")).AddNode(noop("right")).AddNode(noop("end")).
			AddConditionalEdges("a", always("left"), "left", "right").
			AddEdge("left", "end").AddEdge("right", "end").
			SetEntry("a").SetFinish("end").
			Compile()

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "left", "right", "end"}, wf.Nodes())
	})

	t.Run("cycle", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).AddNode(noop("c")).AddNode(noop("end")).
			AddEdge("a", "b").AddEdge("b", "c").
			AddConditionalEdges("c", always("end"), "b", "end").
			SetEntry("a").SetFinish("end"))

		assert.Contains(t, problems, "graph contains a cycle")
	})

	t.Run("unknown endpoints", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).
			AddEdge("a", "missing").
			AddEdge("ghost", "a").
			SetEntry("a").SetFinish("a"))

		assert.Contains(t, problems, `edge from "a" to unknown node "missing"`)
		assert.Contains(t, problems, `edge from unknown node "ghost"`)
	})

	t.Run("duplicate node", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("a")).
			SetEntry("a").SetFinish("a"))

		assert.Contains(t, problems, `duplicate node "a"`)
	})

	t.Run("second outgoing edge", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).AddNode(noop("c")).
			AddEdge("a", "b").
			AddConditionalEdges("a", always("b"), "b", "c").
			AddEdge("b", "c").
			SetEntry("a").SetFinish("c"))

		assert.Contains(t, problems, `node "a" already has an outgoing edge`)
	})

	t.Run("two terminal nodes", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).AddNode(noop("c")).
			AddConditionalEdges("a", always("b"), "b", "c").
			SetEntry("a").SetFinish("c"))

		assert.Contains(t, problems, `node "b" has no outgoing edge and is not the finish node`)
	})

	t.Run("unreachable node", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).AddNode(noop("orphan")).
			AddEdge("a", "b").AddEdge("orphan", "b").
			SetEntry("a").SetFinish("b"))

		assert.Contains(t, problems, `node "orphan" is unreachable from entry "a"`)
	})

	t.Run("missing entry and finish", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").AddNode(noop("a")))

		assert.Contains(t, problems, "no entry node")
		assert.Contains(t, problems, "no finish node")
	})

	t.Run("finish with outgoing edge", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).
			AddEdge("a", "b").AddEdge("b", "a").
			SetEntry("a").SetFinish("b"))

		assert.Contains(t, problems, `finish node "b" has an outgoing edge`)
	})

	t.Run("conditional needs two targets", func(t *testing.T) {
		problems := graphProblems(t, NewGraph("g").
			AddNode(noop("a")).AddNode(noop("b")).
			AddConditionalEdges("a", always("b"), "b").
			SetEntry("a").SetFinish("b"))

		assert.Contains(t, problems, `conditional edges from "a" need at least two targets`)
	})

	t.Run("must compile panics", func(t *testing.T) {
		assert.Panics(t, func() { NewGraph("g").MustCompile() })
	})
}
