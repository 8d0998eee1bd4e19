package llm

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/studyforge/studyforge/internal/models"
)

// RetryConfig defines retry behavior for rate-limited generation calls.
// Only HTTP 429 responses are retried; every other failure is final.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first call
	MaxAttempts int

	// BaseDelay is the backoff before the first retry; the delay for retry
	// n is BaseDelay * 2^n.
	BaseDelay time.Duration
}

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
)

// NewDefaultRetryConfig returns the retry policy for generation calls
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Backoff computes the delay before retrying after the given zero-based attempt
func (c RetryConfig) Backoff(attempt int) time.Duration {
	return c.BaseDelay * (1 << attempt)
}

// statusError carries an HTTP status through the retry loop
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return "API returned status " + http.StatusText(e.status) + ": " + e.body
	}
	return "API returned status " + http.StatusText(e.status)
}

// IsRateLimitError reports whether an error represents an HTTP 429 from any
// provider. SDK-wrapped errors are matched by message, same as status codes
// surfaced by the raw HTTP provider.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// statusOf extracts the HTTP status from an error for GenerationError tagging
func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	if IsRateLimitError(err) {
		return http.StatusTooManyRequests
	}
	return 0
}

// newGenerationError wraps the final error of a retry loop
func newGenerationError(attempts int, err error) *models.GenerationError {
	return &models.GenerationError{
		StatusCode: statusOf(err),
		Attempts:   attempts,
		Err:        err,
	}
}
