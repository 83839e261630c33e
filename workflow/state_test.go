package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		s := NewState()
		s.Set("caption", "Table 2")

		v, ok := s.Get("caption")
		require.True(t, ok)
		assert.Equal(t, "Table 2", v)
		assert.Equal(t, "Table 2", s.GetString("caption"))
		assert.True(t, s.Has("caption"))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("missing and mistyped strings", func(t *testing.T) {
		s := NewStateFrom(map[string]any{"n": 3})
		assert.Equal(t, "", s.GetString("n"))
		assert.Equal(t, "", s.GetString("missing"))
	})

	t.Run("delete", func(t *testing.T) {
		s := NewStateFrom(map[string]any{"a": 1})
		s.Delete("a")
		assert.False(t, s.Has("a"))
	})

	t.Run("keys are sorted", func(t *testing.T) {
		s := NewStateFrom(map[string]any{"b": 1, "a": 2, "c": 3})
		assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		s := NewStateFrom(map[string]any{"a": 1})
		snap := s.Snapshot()
		snap["a"] = 2
		snap["b"] = 3

		v, _ := s.Get("a")
		assert.Equal(t, 1, v)
		assert.False(t, s.Has("b"))
	})

	t.Run("source map is copied", func(t *testing.T) {
		src := map[string]any{"a": 1}
		s := NewStateFrom(src)
		src["a"] = 2
		v, _ := s.Get("a")
		assert.Equal(t, 1, v)
	})
}

type testStruct struct {
	Name  string
	Value int
}

var (
	keyRows   = NewKey[int]("rows")
	keyStruct = NewKey[*testStruct]("struct")
)

func TestTypedKeys(t *testing.T) {
	state := NewState()
	Set(state, keyRows, 5)
	Set(state, keyStruct, &testStruct{Name: "test", Value: 100})
	state.Set("wrong", "five")

	t.Run("get", func(t *testing.T) {
		rows, ok := Get(state, keyRows)
		require.True(t, ok)
		assert.Equal(t, 5, rows)

		s, ok := Get(state, keyStruct)
		require.True(t, ok)
		assert.Equal(t, "test", s.Name)
	})

	t.Run("get mismatched type", func(t *testing.T) {
		_, ok := Get(state, NewKey[int]("wrong"))
		assert.False(t, ok)
	})

	t.Run("must get panics when missing", func(t *testing.T) {
		assert.Equal(t, 5, MustGet(state, keyRows))
		assert.Panics(t, func() { MustGet(state, NewKey[int]("missing")) })
		assert.Panics(t, func() { MustGet(state, NewKey[int]("wrong")) })
	})

	t.Run("require", func(t *testing.T) {
		rows, err := Require(state, keyRows)
		require.NoError(t, err)
		assert.Equal(t, 5, rows)

		_, err = Require(state, NewKey[int]("missing"))
		assert.ErrorIs(t, err, ErrMissingKey)
		assert.Contains(t, err.Error(), `"missing"`)

		_, err = Require(state, NewKey[int]("wrong"))
		assert.ErrorIs(t, err, ErrMissingKey)
	})

	t.Run("has and name", func(t *testing.T) {
		assert.True(t, Has(state, keyRows))
		assert.False(t, Has(state, NewKey[int]("missing")))
		assert.Equal(t, "rows", keyRows.Name())
		assert.Equal(t, "rows", keyRows.String())
	})

	t.Run("seed keys", func(t *testing.T) {
		assert.Equal(t, "llm", KeyCompleter.Name())
		assert.Equal(t, "callback", KeyCallback.Name())
	})
}
