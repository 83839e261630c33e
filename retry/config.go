// Package retry provides bounded retry loops with configurable backoff.
//
// The same loop serves two callers: the client, which retries transient
// transport failures with exponential backoff, and the agent, which retries
// rejected model answers with a short linearly growing pause.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts (default: 10).
	// The initial request counts as attempt 1. Values below 1 mean 1.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry (default: 1s).
	InitialDelay time.Duration

	// Increment is added to the delay once per completed attempt.
	Increment time.Duration

	// MaxDelay is the maximum delay between retries (default: 60s).
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier (default: 2.0).
	// Values <= 0 disable exponential growth.
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd (default: 0.1 = 10%).
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns the transport retry configuration.
// - 10 max attempts
// - 1 second initial delay
// - 60 second max delay
// - 2x exponential multiplier
// - 10% jitter
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  10,
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// AgentConfig returns the budget used when re-asking a model after a rejected
// answer: 5 attempts, waiting 1s, 2s, 3s, 4s between them, never more than 5s.
func AgentConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		Increment:    1 * time.Second,
		MaxDelay:     5 * time.Second,
		Multiplier:   1.0,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Attempts returns the effective attempt budget.
func (c Config) Attempts() int {
	if c.MaxAttempts < 1 {
		return 1
	}
	return c.MaxAttempts
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt + increment * attempt) * (1 + jitter)
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	mult := c.Multiplier
	if mult <= 0 {
		mult = 1
	}

	delay := float64(c.InitialDelay)*math.Pow(mult, float64(attempt)) + float64(c.Increment)*float64(attempt)
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	// Apply jitter: random value in range [-jitter, +jitter]
	if c.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*c.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}
