package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:   true,
		PerUser:   config.RateLimitRule{Limit: 20, Window: "1m"},
		Global:    config.RateLimitRule{Limit: 1000, Window: "1m"},
		Whitelist: []int64{100},
	}
}

func TestMemoryLimiter_AllowsWithinLimit(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Check(ctx, "user:1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 5-i-1, result.Remaining)
	}
}

func TestMemoryLimiter_BlocksOverLimit(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
	}

	result, err := limiter.Check(ctx, "user:1", 3, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	require.NotNil(t, result)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:1", 1, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = limiter.Check(ctx, "user:1", 1, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	time.Sleep(60 * time.Millisecond)

	result, err := limiter.Check(ctx, "user:1", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)
	_, err = limiter.Check(ctx, "user:1", 1, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	result, err := limiter.Check(ctx, "user:2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiter_CleanupDropsStaleKeys(t *testing.T) {
	limiter := NewMemoryLimiter(testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:1", 5, time.Minute)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	limiter.Cleanup(10 * time.Millisecond)

	limiter.mu.Lock()
	_, exists := limiter.windows["user:1"]
	limiter.mu.Unlock()
	assert.False(t, exists)
}

func TestRules(t *testing.T) {
	rules := NewRules(testRateLimitConfig())

	assert.True(t, rules.IsWhitelisted(100))
	assert.False(t, rules.IsWhitelisted(200))

	limit, window, err := rules.PerUserLimit()
	require.NoError(t, err)
	assert.Equal(t, 20, limit)
	assert.Equal(t, time.Minute, window)

	limit, window, err = rules.GlobalLimit()
	require.NoError(t, err)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, time.Minute, window)
}
