package ai

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMaxAttempts indicates a retry policy with a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")

	// ErrNoGenerators indicates a provider was configured without any models.
	ErrNoGenerators = errors.New("at least one generator model required")
)

// RateLimitError wraps a provider error that indicates the caller exceeded
// an allowed call volume (HTTP 429, quota exhausted). These are retryable
// and eventually trigger model fallback.
type RateLimitError struct {
	Model string
	Err   error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited on model %s: %v", e.Model, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimit reports whether err is a rate-limit or quota error. Typed
// wrappers are checked first; providers that only surface message text are
// matched on the usual quota vocabulary, the same classification the
// upstream APIs document for 429 responses.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "rate_limit", "quota", "resource exhausted", "429", "too many requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
