package agent

import (
	"errors"
	"fmt"
)

// ErrExhausted is wrapped around the last error when every attempt of a task
// was rejected or failed.
var ErrExhausted = errors.New("agent: retry budget exhausted")

// RetryError is returned by a post-processor when the model's answer is
// structurally valid but semantically wrong. Message is shown to the model on
// the next attempt, right after its rejected answer.
type RetryError struct {
	// Message is the correction sent back to the model verbatim.
	Message string

	// Content is the rejected answer. The agent fills it in when empty.
	Content string
}

// Error returns the correction message.
func (e *RetryError) Error() string {
	return "rejected answer: " + e.Message
}

// Retryf builds a RetryError with a formatted correction message.
func Retryf(format string, args ...any) *RetryError {
	return &RetryError{Message: fmt.Sprintf(format, args...)}
}

// IsRetryError returns true if err is or wraps a *RetryError.
func IsRetryError(err error) bool {
	var re *RetryError
	return errors.As(err, &re)
}
