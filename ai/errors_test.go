package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("connection refused"), false},
		{"rate limit text", errors.New("Rate limit exceeded, retry later"), true},
		{"quota text", errors.New("quota exceeded for model"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE EXHAUSTED"), true},
		{"http 429", errors.New("unexpected status code: 429"), true},
		{"too many requests", errors.New("Too Many Requests"), true},
		{"wrapped typed error", fmt.Errorf("call failed: %w",
			&RateLimitError{Model: "m", Err: errors.New("boom")}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.err))
		})
	}
}

func TestRateLimitError_Unwrap(t *testing.T) {
	inner := errors.New("429")
	err := &RateLimitError{Model: "llama-3.3-70b-versatile", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "llama-3.3-70b-versatile")
}
