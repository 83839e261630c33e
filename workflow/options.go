package workflow

import (
	"time"
)

// Options contains configuration for workflow execution.
type Options struct {
	// Timeout sets a deadline for the entire workflow.
	Timeout time.Duration

	// StepTimeout sets a deadline for each node. 0 means none.
	StepTimeout time.Duration

	// Callback observes the run in addition to the state's KeyCallback.
	Callback Callback

	// RunID overrides the generated run identifier.
	RunID string
}

// Option is a functional option for workflow configuration.
type Option func(*Options)

// WithTimeout sets the overall workflow timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithStepTimeout sets the timeout for each step.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StepTimeout = d
	}
}

// WithCallback adds an observer for the run.
func WithCallback(cb Callback) Option {
	return func(o *Options) {
		if o.Callback == nil {
			o.Callback = cb
			return
		}
		o.Callback = Callbacks(o.Callback, cb)
	}
}

// WithRunID sets the run identifier used in events.
func WithRunID(id string) Option {
	return func(o *Options) {
		o.RunID = id
	}
}

// ApplyOptions applies functional options with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
