package pkextract

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when a required input is empty.
var ErrEmptyInput = errors.New("empty input")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself was invalid.
	// Examples: malformed request, invalid parameters, content policy violation.
	ErrorUserInput ErrorCategory = "user_input"

	// ErrorSchema indicates the provider answered but the answer does not
	// conform to the requested response schema.
	ErrorSchema ErrorCategory = "schema"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, RetryDelay: retryAfter, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating an invalid request.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// NewSchemaError creates an error for an answer that does not match its schema.
func NewSchemaError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorSchema, Cause: cause}
}

func categoryOf(err error) (ErrorCategory, bool) {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category(), true
	}
	return "", false
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorTransient
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorPermanent
}

// IsUserInput returns true if the error is categorized as a user input error.
func IsUserInput(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorUserInput
}

// IsSchemaMismatch returns true if the error reports a schema-nonconforming answer.
func IsSchemaMismatch(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorSchema
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// ClientError marks a failed call to a Completer: transport failure, provider
// rejection, or an answer the client could not coerce into the schema.
type ClientError struct {
	Op  string // "complete" or "reason"
	Err error
}

// Error returns a formatted message describing the failed call.
func (e *ClientError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("client error: %v", e.Err)
	}
	return fmt.Sprintf("client error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsClientError returns true if err is or wraps a *ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// UnmarshalError is returned when a model answer cannot be decoded into the target type.
type UnmarshalError struct {
	Context    string
	Content    string
	TargetType string
	Err        error
}

func (e *UnmarshalError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: failed to unmarshal response into %s: %v", e.Context, e.TargetType, e.Err)
	}
	return fmt.Sprintf("failed to unmarshal response into %s: %v", e.TargetType, e.Err)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}
