package agent

import (
	"log/slog"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/event"
	"github.com/spetersoncode/pkextract/retry"
)

// Default prompts used by the two-step mode.
const (
	DefaultReasoningPrompt = "Before answering, think through the task step by step. " +
		"Explain your reasoning in plain text; do not produce the final structured answer yet."
	DefaultAnswerPrompt = "Based on your reasoning above, now give the final answer in the required format."
)

// Options contains configuration for agent execution.
type Options struct {
	// RetryConfig bounds the attempts of one task. Default is retry.AgentConfig().
	RetryConfig retry.Config

	// Events receives retry events (non-blocking). Nil disables them.
	Events chan<- event.Event

	// TwoStep asks for free-text reasoning before the structured answer.
	TwoStep bool

	// ReasoningPrompt and AnswerPrompt steer the two calls of the two-step mode.
	ReasoningPrompt string
	AnswerPrompt    string

	// ChatOptions are passed through to every completion.
	ChatOptions []ai.Option

	// Logger receives debug records for rejected attempts.
	Logger *slog.Logger
}

// Option is a functional option for configuring an Agent.
type Option func(*Options)

// WithRetryConfig sets the attempt budget and the pause between attempts.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *Options) {
		o.RetryConfig = cfg
	}
}

// WithMaxAttempts is a convenience option that only changes the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		o.RetryConfig.MaxAttempts = n
	}
}

// WithRetryEvents sets the channel receiving retry events.
func WithRetryEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithTwoStep enables or disables the reasoning-then-answer mode.
func WithTwoStep(enabled bool) Option {
	return func(o *Options) {
		o.TwoStep = enabled
	}
}

// WithReasoningPrompts overrides the two-step prompts. Empty values keep the defaults.
func WithReasoningPrompts(reasoning, answer string) Option {
	return func(o *Options) {
		if reasoning != "" {
			o.ReasoningPrompt = reasoning
		}
		if answer != "" {
			o.AnswerPrompt = answer
		}
	}
}

// WithChatOptions passes options through to the Completer.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for every completion.
func WithModel(model ai.Model) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, ai.WithModel(model))
	}
}

// WithLogger sets the logger used for rejected attempts.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		RetryConfig:     retry.AgentConfig(),
		ReasoningPrompt: DefaultReasoningPrompt,
		AnswerPrompt:    DefaultAnswerPrompt,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
