package workflow

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Branch picks the successor of a node from the current state.
// Given the same state it must return the same name.
type Branch func(ctx context.Context, state *State) (string, error)

// When selects ifTrue when pred holds and ifFalse otherwise.
func When(pred func(state *State) bool, ifTrue, ifFalse string) Branch {
	return func(_ context.Context, state *State) (string, error) {
		if pred(state) {
			return ifTrue, nil
		}
		return ifFalse, nil
	}
}

// ExprBranch selects between two nodes with a boolean expr-lang expression
// evaluated against State.Snapshot(). Every state key is a top-level
// variable, so `len(drug_list) == 1` reads the "drug_list" key.
func ExprBranch(expression, ifTrue, ifFalse string) (Branch, error) {
	prg, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("workflow: compile branch %q: %w", expression, err)
	}
	return func(_ context.Context, state *State) (string, error) {
		return evalBranch(prg, expression, state, ifTrue, ifFalse)
	}, nil
}

// MustExprBranch is like ExprBranch but panics on a compile error.
func MustExprBranch(expression, ifTrue, ifFalse string) Branch {
	b, err := ExprBranch(expression, ifTrue, ifFalse)
	if err != nil {
		panic(err)
	}
	return b
}

func evalBranch(prg *vm.Program, expression string, state *State, ifTrue, ifFalse string) (string, error) {
	out, err := expr.Run(prg, state.Snapshot())
	if err != nil {
		return "", fmt.Errorf("workflow: evaluate branch %q: %w", expression, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return "", fmt.Errorf("workflow: branch %q returned %T, want bool", expression, out)
	}
	if ok {
		return ifTrue, nil
	}
	return ifFalse, nil
}
