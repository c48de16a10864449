package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestRedisLimiter_AllowsWithinLimit(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Check(ctx, "user:1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestRedisLimiter_BlocksOverLimit(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	limiter := NewRedisLimiter(client, testLogger())
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

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	limiter := NewRedisLimiter(client, testLogger())
	ctx := context.Background()

	_, err := limiter.Check(ctx, "user:1", 1, time.Minute)
	require.NoError(t, err)
	_, err = limiter.Check(ctx, "user:1", 1, time.Minute)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	result, err := limiter.Check(ctx, "user:2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRedisLimiter_ZeroLimitBlocksEverything(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	limiter := NewRedisLimiter(client, testLogger())

	result, err := limiter.Check(context.Background(), "user:1", 0, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestRedisLimiter_NilClient(t *testing.T) {
	limiter := &RedisLimiter{log: testLogger()}

	_, err := limiter.Check(context.Background(), "user:1", 5, time.Minute)
	assert.Error(t, err)
}
