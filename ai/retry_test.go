package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetryPolicy_Success(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: fakeSleep(&delays)}

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
	assert.Empty(t, delays, "no backoff on immediate success")
}

func TestRetryPolicy_EventualSuccess(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: fakeSleep(&delays)}

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays,
		"backoff doubles between attempts")
}

func TestRetryPolicy_AllAttemptsFail(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: fakeSleep(&delays)}

	attempts := 0
	expectedErr := errors.New("persistent error")
	err := policy.Do(context.Background(), func() error {
		attempts++
		return expectedErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr, "should return the last error")
	assert.Equal(t, 3, attempts, "should attempt exactly MaxAttempts times")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestRetryPolicy_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	attempts := 0
	err := policy.Do(ctx, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("still failing")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts, "should stop after cancellation")
}

func TestRetryPolicy_InvalidMaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 0, BaseDelay: time.Second}

	err := policy.Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.BaseDelay)
}
