package workflow

import (
	"fmt"

	ai "github.com/spetersoncode/pkextract"
)

// Key represents a typed state key that associates a name with type T.
// Keys provide compile-time type safety for workflow state access.
//
// Define keys as package-level variables for reuse:
//
//	var (
//	    KeyTable    = workflow.NewKey[*table.Table]("table")
//	    KeyDrugList = workflow.NewKey[[][]string]("drug_list")
//	)
type Key[T any] struct {
	name string
}

// NewKey creates a typed key with the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the string name of the key.
func (k Key[T]) Name() string {
	return k.name
}

// String implements fmt.Stringer for debugging.
func (k Key[T]) String() string {
	return k.name
}

// Seed keys every run may carry.
var (
	// KeyCompleter holds the completer agent steps fall back to.
	KeyCompleter = NewKey[ai.Completer]("llm")

	// KeyCallback holds an observer notified at step boundaries.
	KeyCallback = NewKey[Callback]("callback")
)

// Get retrieves a value from state using a typed key.
// Returns the zero value and false if the key is missing or type mismatches.
func Get[T any](s *State, key Key[T]) (T, bool) {
	var zero T
	v, ok := s.Get(key.name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Set stores a value in state using a typed key.
func Set[T any](s *State, key Key[T], value T) {
	s.Set(key.name, value)
}

// MustGet retrieves a value from state using a typed key.
// Panics if the key is missing or the value cannot be asserted to type T.
func MustGet[T any](s *State, key Key[T]) T {
	v, ok := s.Get(key.name)
	if !ok {
		panic(fmt.Sprintf("workflow: state key %q not found", key.name))
	}
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("workflow: state key %q has type %T, want %T", key.name, v, *new(T)))
	}
	return typed
}

// Require retrieves a value that a step cannot run without.
// The error wraps ErrMissingKey.
func Require[T any](s *State, key Key[T]) (T, error) {
	var zero T
	v, ok := s.Get(key.name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrMissingKey, key.name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q has type %T, want %T", ErrMissingKey, key.name, v, zero)
	}
	return typed, nil
}

// Has returns true if the typed key exists in state.
func Has[T any](s *State, key Key[T]) bool {
	return s.Has(key.name)
}
