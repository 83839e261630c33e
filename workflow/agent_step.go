package workflow

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/agent"
)

// Prompt is the conversation an agent step sends.
type Prompt struct {
	System      string
	Instruction string
	Extra       []ai.Message
}

// AgentStepConfig holds the hooks of an agent-backed step.
//
// R is the decoded model answer, P the value the step writes to state.
type AgentStepConfig[R, P any] struct {
	// Agent runs the task. When nil, an agent is built from the state's
	// KeyCompleter.
	Agent *agent.Agent

	// AgentOptions are applied on top of the agent's own options.
	AgentOptions []agent.Option

	// Prompt builds the conversation from state.
	Prompt func(s *State) (Prompt, error)

	// Schema constrains the model answer.
	Schema *ai.ResponseSchema

	// PreProcess returns false when the step's outputs can be produced
	// without asking the model. OnSkip then writes them.
	PreProcess func(s *State) bool
	OnSkip     func(s *State) error

	// PostProcess validates the answer; see agent.Task.
	PostProcess func(s *State, raw *R) (P, error)

	// TryFix repairs an answer rejected on the final attempt.
	TryFix func(s *State, raw *R) (P, bool)

	// Apply writes the processed value into state.
	Apply func(s *State, out P) error

	// Summarize builds the completion message.
	Summarize func(out P) string
}

// AgentStep asks the model for one structured answer and writes the
// post-processed result into state.
type AgentStep[R, P any] struct {
	name        string
	description string
	cfg         AgentStepConfig[R, P]
}

// NewAgentStep creates an agent-backed step.
//
// Example:
//
//	step := workflow.NewAgentStep("drug_info", "Extracting drug information",
//	    workflow.AgentStepConfig[drugAnswer, [][]string]{
//	        Prompt:      drugPrompt,
//	        Schema:      &drugSchema,
//	        PostProcess: checkDrugs,
//	        Apply: func(s *workflow.State, drugs [][]string) error {
//	            workflow.Set(s, KeyDrugList, drugs)
//	            return nil
//	        },
//	    })
func NewAgentStep[R, P any](name, description string, cfg AgentStepConfig[R, P]) *AgentStep[R, P] {
	return &AgentStep[R, P]{name: name, description: description, cfg: cfg}
}

// Name returns the step name.
func (a *AgentStep[R, P]) Name() string { return a.name }

// Description returns the step description.
func (a *AgentStep[R, P]) Description() string { return a.description }

// Run builds the prompt, runs the agent and applies the result.
// On failure the returned result still carries the usage spent.
func (a *AgentStep[R, P]) Run(ctx context.Context, state *State) (*StepResult, error) {
	if a.cfg.PreProcess != nil && !a.cfg.PreProcess(state) {
		if a.cfg.OnSkip != nil {
			if err := a.cfg.OnSkip(state); err != nil {
				return nil, err
			}
		}
		return &StepResult{
			StepName: a.name,
			Summary:  "no model call needed",
			Skipped:  true,
		}, nil
	}

	ag, err := a.agent(state)
	if err != nil {
		return nil, err
	}

	if a.cfg.Prompt == nil {
		return nil, fmt.Errorf("step %q has no prompt", a.name)
	}
	prompt, err := a.cfg.Prompt(state)
	if err != nil {
		return nil, err
	}

	task := agent.Task[R, P]{
		Name:        a.name,
		System:      prompt.System,
		Instruction: prompt.Instruction,
		Schema:      a.cfg.Schema,
		Extra:       prompt.Extra,
	}
	if a.cfg.PostProcess != nil {
		task.PostProcess = func(raw *R) (P, error) { return a.cfg.PostProcess(state, raw) }
	}
	if a.cfg.TryFix != nil {
		task.TryFixError = func(raw *R) (P, bool) { return a.cfg.TryFix(state, raw) }
	}

	res, err := agent.Run(ctx, ag, task)
	if err != nil {
		out := &StepResult{StepName: a.name}
		if res != nil {
			out.Usage = res.Usage
		}
		return out, err
	}

	if a.cfg.Apply != nil {
		if err := a.cfg.Apply(state, res.Processed); err != nil {
			return &StepResult{StepName: a.name, Usage: res.Usage}, err
		}
	}

	summary := fmt.Sprintf("%s completed in %d attempt(s)", a.name, res.Attempts)
	if a.cfg.Summarize != nil {
		summary = a.cfg.Summarize(res.Processed)
	}

	return &StepResult{
		StepName:  a.name,
		Raw:       res.Raw,
		Output:    res.Processed,
		Summary:   summary,
		Reasoning: res.Reasoning,
		Usage:     res.Usage,
	}, nil
}

func (a *AgentStep[R, P]) agent(state *State) (*agent.Agent, error) {
	ag := a.cfg.Agent
	if ag == nil {
		c, err := Require(state, KeyCompleter)
		if err != nil {
			return nil, err
		}
		ag = agent.New(c)
	}
	if len(a.cfg.AgentOptions) > 0 {
		ag = ag.With(a.cfg.AgentOptions...)
	}
	return ag, nil
}
