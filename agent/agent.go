package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
	"github.com/spetersoncode/pkextract/retry"
	"github.com/spetersoncode/pkextract/schema"
)

// Agent asks a Completer for one structured answer per task, re-asking with
// feedback when the answer is rejected.
type Agent struct {
	completer ai.Completer
	raw       []Option
	opts      *Options
}

// New creates an Agent backed by the given completer.
func New(c ai.Completer, opts ...Option) *Agent {
	raw := append([]Option(nil), opts...)
	return &Agent{
		completer: c,
		raw:       raw,
		opts:      ApplyOptions(raw...),
	}
}

// With returns a copy of the agent with additional options applied.
func (a *Agent) With(opts ...Option) *Agent {
	raw := make([]Option, 0, len(a.raw)+len(opts))
	raw = append(raw, a.raw...)
	raw = append(raw, opts...)
	return &Agent{
		completer: a.completer,
		raw:       raw,
		opts:      ApplyOptions(raw...),
	}
}

// Options returns the effective options.
func (a *Agent) Options() Options {
	return *a.opts
}

// Task describes one "ask, validate, maybe retry" cycle.
//
// R is the type the schema-conforming JSON answer decodes into; P is the
// application-level value produced by PostProcess.
type Task[R, P any] struct {
	// Name identifies the task in events and errors.
	Name string

	System      string
	Instruction string

	// Schema constrains the answer.
	Schema *ai.ResponseSchema

	// Extra turns are sent after the instruction and before any feedback.
	Extra []ai.Message

	// PreProcess runs before any model call. Returning false skips the task.
	PreProcess func() bool

	// PostProcess validates and reshapes the answer. Returning a *RetryError
	// rejects the answer and consumes an attempt; any other error aborts.
	// When nil, the decoded answer is used as-is if it is assignable to P.
	PostProcess func(raw *R) (P, error)

	// TryFixError is consulted when PostProcess rejects the answer on the
	// final attempt. Returning ok accepts the repaired value.
	TryFixError func(raw *R) (P, bool)
}

// Result holds the outcome of a task.
type Result[R, P any] struct {
	// Raw is the decoded answer of the accepted attempt. Nil when skipped.
	Raw *R

	// Processed is the post-processed value.
	Processed P

	// Usage sums every completion that reached the client.
	Usage ai.TokenUsage

	// Reasoning is the model's free-text reasoning for the accepted answer.
	Reasoning string

	// Attempts is the number of attempts made.
	Attempts int

	// Skipped is true when PreProcess declined the task.
	Skipped bool

	// Fixed is true when TryFixError produced the accepted value.
	Fixed bool

	// Failures lists the rejected answers in order.
	Failures []*RetryError
}

// Run executes the task. On failure the partial result is still returned so
// callers can account for usage.
//
// Every *pkextract.ClientError and *RetryError consumes one attempt. Any other
// error, including context cancellation, is returned immediately. Each attempt
// replays the rejected answers so far, each followed by its correction.
func Run[R, P any](ctx context.Context, a *Agent, task Task[R, P]) (*Result[R, P], error) {
	res := &Result[R, P]{}

	if task.PreProcess != nil && !task.PreProcess() {
		res.Skipped = true
		return res, nil
	}

	cfg := a.opts.RetryConfig
	maxAttempts := cfg.Attempts()
	log := a.opts.Logger.With("task", task.Name)

	_, err := retry.DoAttempts(ctx, cfg, nil, retryable, func(attempt int) (struct{}, error) {
		res.Attempts = attempt + 1
		event.Emit(a.opts.Events, event.Event{
			Type:     event.RetryAttempt,
			StepName: task.Name,
			Attempt:  attempt + 1,
		})

		err := attemptOnce(ctx, a, task, res, attempt == maxAttempts-1)
		if err != nil && retryable(err) {
			log.Debug("attempt rejected", "attempt", attempt+1, "max_attempts", maxAttempts, "error", err)
			event.Emit(a.opts.Events, event.Event{
				Type:     event.RetryFailed,
				StepName: task.Name,
				Attempt:  attempt + 1,
				Error:    err,
				Message:  correctionOf(err),
			})
		}
		return struct{}{}, err
	})
	if err == nil {
		return res, nil
	}

	if retryable(err) {
		event.Emit(a.opts.Events, event.Event{
			Type:     event.RetryExhausted,
			StepName: task.Name,
			Attempt:  res.Attempts,
			Error:    err,
		})
		return res, fmt.Errorf("%w: %s after %d attempts: %w", ErrExhausted, task.Name, res.Attempts, err)
	}
	return res, err
}

// attemptOnce performs one attempt and records its outcome in res.
func attemptOnce[R, P any](ctx context.Context, a *Agent, task Task[R, P], res *Result[R, P], final bool) error {
	comp, reasoning, err := a.complete(ctx, task.System, task.Instruction, task.Schema, feedback(task.Extra, res.Failures), &res.Usage)
	if err != nil {
		return err
	}

	raw := new(R)
	if err := json.Unmarshal([]byte(comp.Content), raw); err != nil {
		return &ai.ClientError{
			Op: "decode",
			Err: &ai.UnmarshalError{
				Context:    task.Name,
				Content:    comp.Content,
				TargetType: fmt.Sprintf("%T", *raw),
				Err:        err,
			},
		}
	}

	if task.PostProcess == nil {
		res.Raw = raw
		res.Reasoning = reasoning
		if p, ok := any(*raw).(P); ok {
			res.Processed = p
		} else if p, ok := any(raw).(P); ok {
			res.Processed = p
		}
		return nil
	}

	processed, err := task.PostProcess(raw)
	if err == nil {
		res.Raw = raw
		res.Processed = processed
		res.Reasoning = reasoning
		return nil
	}

	var re *RetryError
	if !errors.As(err, &re) {
		return err
	}

	rejected := *re
	if rejected.Content == "" {
		rejected.Content = comp.Content
	}
	res.Failures = append(res.Failures, &rejected)

	if final && task.TryFixError != nil {
		if fixed, ok := task.TryFixError(raw); ok {
			res.Raw = raw
			res.Processed = fixed
			res.Reasoning = reasoning
			res.Fixed = true
			return nil
		}
	}
	return &rejected
}

// complete runs one single or two-step completion, adding every usage that
// reached the client to usage.
func (a *Agent) complete(ctx context.Context, system, instruction string, rs *ai.ResponseSchema, extra []ai.Message, usage *ai.TokenUsage) (*ai.Completion, string, error) {
	if !a.opts.TwoStep {
		comp, err := a.completer.Complete(ctx, ai.CompletionRequest{
			System:      system,
			Instruction: instruction,
			Schema:      rs,
			Extra:       extra,
		}, a.opts.ChatOptions...)
		if comp != nil {
			*usage = usage.Add(comp.Usage)
		}
		if err != nil {
			return nil, "", asClientError("complete", err)
		}
		return comp, gjson.Get(comp.Content, schema.ReasoningField).String(), nil
	}

	thinking, err := a.completer.Complete(ctx, ai.CompletionRequest{
		System:      system,
		Instruction: instruction,
		Extra:       append(append([]ai.Message(nil), extra...), ai.UserMessage(a.opts.ReasoningPrompt)),
	}, a.opts.ChatOptions...)
	if thinking != nil {
		*usage = usage.Add(thinking.Usage)
	}
	if err != nil {
		return nil, "", asClientError("reason", err)
	}

	primed := make([]ai.Message, 0, len(extra)+3)
	primed = append(primed, extra...)
	primed = append(primed,
		ai.UserMessage(a.opts.ReasoningPrompt),
		ai.AssistantMessage(thinking.Content),
		ai.UserMessage(a.opts.AnswerPrompt),
	)
	comp, err := a.completer.Complete(ctx, ai.CompletionRequest{
		System:      system,
		Instruction: instruction,
		Schema:      rs,
		Extra:       primed,
	}, a.opts.ChatOptions...)
	if comp != nil {
		*usage = usage.Add(comp.Usage)
	}
	if err != nil {
		return nil, "", asClientError("complete", err)
	}
	return comp, thinking.Content, nil
}

// feedback appends each rejected answer and its correction after base.
func feedback(base []ai.Message, failures []*RetryError) []ai.Message {
	if len(failures) == 0 {
		return base
	}
	msgs := make([]ai.Message, 0, len(base)+2*len(failures))
	msgs = append(msgs, base...)
	for _, f := range failures {
		msgs = append(msgs, ai.AssistantMessage(f.Content), ai.UserMessage(f.Message))
	}
	return msgs
}

// asClientError marks completer failures as client errors unless they are
// context errors, which must stop the loop.
func asClientError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if ai.IsClientError(err) {
		return err
	}
	return &ai.ClientError{Op: op, Err: err}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return ai.IsClientError(err) || IsRetryError(err)
}

func correctionOf(err error) string {
	var re *RetryError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
