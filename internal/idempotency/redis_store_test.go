package idempotency

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

func TestRedisStore_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	record := &Record{
		Status:   StatusCompleted,
		Response: []byte(`"ok"`),
	}
	require.NoError(t, store.Set(ctx, "key-1", record, time.Minute))

	got, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, record.Response, got.Response)
}

func TestRedisStore_GetMissing(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger())

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_LockAndRelease(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	locked, err := store.Lock(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = store.Lock(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, locked, "second lock on the same key must fail")

	require.NoError(t, store.ReleaseLock(ctx, "key-1"))

	locked, err = store.Lock(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestManager_ReplaysAcrossStores(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	store := NewRedisStore(client, testLogger())

	first := NewManager(store, testLogger())
	result, err := first.Execute(ctx, "key-1", time.Minute, func(context.Context) (interface{}, error) {
		return "answer", nil
	})
	require.NoError(t, err)
	assert.False(t, result.FromCache)

	// a fresh manager over the same Redis sees the completed record
	second := NewManager(NewRedisStore(client, testLogger()), testLogger())
	result, err = second.Execute(ctx, "key-1", time.Minute, func(context.Context) (interface{}, error) {
		t.Fatal("operation must not run again")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, "answer", result.Response)
}
