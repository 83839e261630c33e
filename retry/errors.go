package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"syscall"

	"github.com/spetersoncode/pkextract"
)

// statusCoder is implemented by SDK errors that carry an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"rate limit",
	"server error",
	"bad gateway",
	"gateway timeout",
	"overloaded",
}

// IsTransient determines if an error is transient and should be retried.
// Errors implementing pkextract.CategorizedError are classified by their
// category. Anything else falls back to heuristics:
// - Rate limits (HTTP 429)
// - Server errors (HTTP 5xx)
// - Network timeouts, connection resets, temporary DNS failures
//
// Context cancellation and deadline expiry are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ce pkextract.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == pkextract.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}

	if code := googleAPIErrorCode(err.Error()); code > 0 {
		return isTransientStatusCode(code)
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

// googleAPIErrorCode extracts NNN from messages shaped like
// "googleapi: Error NNN: ...". It returns 0 when the pattern is absent.
func googleAPIErrorCode(msg string) int {
	_, rest, ok := strings.Cut(msg, "googleapi: Error ")
	if !ok || len(rest) < 3 {
		return 0
	}
	code, err := strconv.Atoi(rest[:3])
	if err != nil {
		return 0
	}
	return code
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
