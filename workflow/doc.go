// Package workflow runs a fixed directed acyclic graph of steps over a
// shared, per-run State.
//
// A workflow is built once with a Graph and compiled into an immutable
// Workflow. Compile rejects cycles, unknown endpoints, unreachable nodes and
// graphs with more than one terminal node. Each Run then walks from the entry
// node to the finish node, executing one node at a time and never revisiting
// a node; all retrying happens inside agent steps.
//
// # State Model
//
// State is a map of named values. Typed keys give compile-time checked
// access:
//
//	var KeyRows = workflow.NewKey[int]("rows")
//
//	workflow.Set(state, KeyRows, 5)
//	rows, err := workflow.Require(state, KeyRows)
//
// Two seed keys are understood by the engine: KeyCompleter, used by agent
// steps that were not given an agent, and KeyCallback, notified at every
// step boundary.
//
// # Steps
//
// FuncStep wraps deterministic code. AgentStep wraps one agent task with
// four hooks: Prompt, PostProcess (with optional TryFix), Apply and an
// optional PreProcess that skips the model call.
//
// # Building a Graph
//
//	g := workflow.NewGraph("pk_summary").
//	    AddNode(split).
//	    AddNode(auto).
//	    AddNode(match).
//	    AddNode(cleanup).
//	    SetEntry("table_split").
//	    AddConditionalEdges("table_split",
//	        workflow.MustExprBranch("len(drug_list) == 1", "drug_matching_auto", "drug_matching_agent"),
//	        "drug_matching_auto", "drug_matching_agent").
//	    AddEdge("drug_matching_auto", "row_cleanup").
//	    AddEdge("drug_matching_agent", "row_cleanup").
//	    SetFinish("row_cleanup")
//
//	wf, err := g.Compile()
//	result, err := wf.Run(ctx, state, workflow.WithCallback(workflow.LogCallback(logger)))
//
// # Observing a Run
//
// Callbacks receive event.Event values: RunStart, StepStart, StepEnd,
// StepSkipped, RouteSelected, RunEnd and RunError. RunStream delivers the
// same events on a channel. A callback must not panic; a panic fails the
// step that triggered it.
package workflow
