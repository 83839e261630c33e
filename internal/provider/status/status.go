// Package status maps provider HTTP failures onto pkextract error categories.
package status

import (
	"net/http"
	"strconv"
	"time"

	"github.com/spetersoncode/pkextract"
)

// Category determines the error category from an HTTP status code.
func Category(code int) pkextract.ErrorCategory {
	switch {
	case code == 429:
		return pkextract.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return pkextract.ErrorTransient // Server error, including Anthropic's 529 overload
	case code == 401 || code == 403:
		return pkextract.ErrorPermanent
	case code == 400 || code == 404 || code == 413 || code == 422:
		return pkextract.ErrorUserInput
	default:
		return pkextract.ErrorPermanent
	}
}

// Wrap attaches a category, status code and server-suggested delay to err.
func Wrap(err error, code int, retryAfter time.Duration) error {
	msg := err.Error()
	switch Category(code) {
	case pkextract.ErrorTransient:
		if retryAfter > 0 {
			return pkextract.NewTransientErrorWithRetry(msg, code, retryAfter, err)
		}
		return pkextract.NewTransientError(msg, code, err)
	case pkextract.ErrorUserInput:
		return pkextract.NewUserInputError(msg, code, err)
	default:
		return pkextract.NewPermanentError(msg, code, err)
	}
}

// RetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date form (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
