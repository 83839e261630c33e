package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/spetersoncode/pkextract"
	"github.com/stretchr/testify/assert"
)

// mockAPIError simulates an API error with a status code.
type mockAPIError struct {
	code int
	msg  string
}

func (e *mockAPIError) Error() string   { return e.msg }
func (e *mockAPIError) StatusCode() int { return e.code }

// mockNetError simulates a network error with timeout/temporary flags.
type mockNetError struct {
	msg       string
	timeout   bool
	temporary bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return e.temporary }

var _ net.Error = (*mockNetError)(nil)

func TestIsTransientStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
		{529, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, isTransientStatusCode(tt.code))
			assert.Equal(t, tt.expected, IsTransient(&mockAPIError{code: tt.code, msg: "api error"}))
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"generic", errors.New("invalid input"), false},
		{"net timeout", &mockNetError{msg: "i/o", timeout: true}, true},
		{"net non-timeout", &mockNetError{msg: "invalid address"}, false},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"rate limit text", errors.New("rate limit exceeded"), true},
		{"overloaded text", errors.New("anthropic: overloaded"), true},
		{"google 429", errors.New("googleapi: Error 429: Rate Limit Exceeded"), true},
		{"google 503", errors.New("googleapi: Error 503: Service Unavailable"), true},
		{"google 400", errors.New("googleapi: Error 400: Bad Request"), false},
		{"wrapped status", fmt.Errorf("op: %w", &mockAPIError{code: 502, msg: "x"}), true},
		{"context canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsTransientWithCategorizedError(t *testing.T) {
	assert.True(t, IsTransient(pkextract.NewTransientError("rate limited", 429, nil)))
	assert.False(t, IsTransient(pkextract.NewUserInputError("bad request", 400, nil)))
	assert.False(t, IsTransient(pkextract.NewSchemaError("mismatch", nil)))

	// explicit category wins over the status code heuristic
	assert.False(t, IsTransient(pkextract.NewPermanentError("do not retry", 429, nil)))
}

func TestGoogleAPIErrorCode(t *testing.T) {
	assert.Equal(t, 504, googleAPIErrorCode("googleapi: Error 504: Gateway Timeout"))
	assert.Equal(t, 0, googleAPIErrorCode("googleapi: Error x"))
	assert.Equal(t, 0, googleAPIErrorCode("plain"))
}
