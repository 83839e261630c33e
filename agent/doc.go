// Package agent wraps one structured completion with bounded retry and
// failure feedback.
//
// A Task names the prompts, the response schema and up to three hooks:
//
//   - PreProcess decides whether a model call is needed at all.
//   - PostProcess validates the decoded answer. Returning a *RetryError
//     rejects it; the next attempt shows the model its rejected answer
//     followed by the correction message.
//   - TryFixError repairs the answer when it is rejected on the final attempt.
//
// # Basic Usage
//
//	type answer struct {
//	    Reasoning string   `json:"reasoning"`
//	    Drugs     []string `json:"drugs"`
//	}
//
//	a := agent.New(c)
//	res, err := agent.Run(ctx, a, agent.Task[answer, []string]{
//	    Name:        "drug_list",
//	    System:      system,
//	    Instruction: instruction,
//	    Schema:      &rs,
//	    PostProcess: func(r *answer) ([]string, error) {
//	        if len(r.Drugs) == 0 {
//	            return nil, agent.Retryf("the list is empty; name at least one drug")
//	        }
//	        return r.Drugs, nil
//	    },
//	})
//
// # Attempt Budget
//
// The default budget is retry.AgentConfig(): 5 attempts with 1s, 2s, 3s and
// 4s pauses. Client errors and rejected answers both consume attempts; any
// other error from PostProcess aborts at once. When the budget is spent the
// returned error wraps ErrExhausted and the last failure.
//
// # Two-Step Mode
//
// WithTwoStep(true) first asks for free-text reasoning and then for the
// structured answer, with the reasoning kept in the conversation. Usage of
// both calls is summed.
package agent
