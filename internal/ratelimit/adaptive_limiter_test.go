package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingLimiter always reports an infrastructure failure.
type failingLimiter struct{}

func (failingLimiter) Check(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, errors.New("connection refused")
}

func TestAdaptiveLimiter_UsesPrimary(t *testing.T) {
	primary := NewMemoryLimiter(testLogger())
	fallback := NewMemoryLimiter(testLogger())
	limiter := NewAdaptiveLimiter(primary, fallback, testLogger())

	result, err := limiter.Check(context.Background(), "user:1", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestAdaptiveLimiter_PrimaryRejectionIsFinal(t *testing.T) {
	primary := NewMemoryLimiter(testLogger())
	fallback := NewMemoryLimiter(testLogger())
	limiter := NewAdaptiveLimiter(primary, fallback, testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)

	result, err := limiter.Check(ctx, "user:1", 1, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, result.Allowed)

	// the rejection must not have consumed fallback budget
	fallbackResult, err := fallback.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, fallbackResult.Allowed)
}

func TestAdaptiveLimiter_FallsBackOnInfraError(t *testing.T) {
	fallback := NewMemoryLimiter(testLogger())
	limiter := NewAdaptiveLimiter(failingLimiter{}, fallback, testLogger())
	ctx := context.Background()

	// half the limit: 4/2 = 2 requests pass, the third is rejected
	for i := 0; i < 2; i++ {
		result, err := limiter.Check(ctx, "user:1", 4, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := limiter.Check(ctx, "user:1", 4, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, result.Allowed)
}
