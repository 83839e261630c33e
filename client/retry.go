package client

import "github.com/spetersoncode/pkextract/retry"

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// DefaultRetryConfig returns the default transport retry configuration.
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// DisabledRetryConfig returns a configuration that disables retries (single attempt).
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// IsTransientError determines if an error is transient and should be retried.
func IsTransientError(err error) bool {
	return retry.IsTransient(err)
}
