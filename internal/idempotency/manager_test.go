package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_ExecutesOnce(t *testing.T) {
	manager := NewManager(NewMemoryStore(testLogger()), testLogger())
	ctx := context.Background()

	calls := 0
	op := func(context.Context) (interface{}, error) {
		calls++
		return "done", nil
	}

	result, err := manager.Execute(ctx, "key-1", time.Minute, op)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, "done", result.Response)

	result, err = manager.Execute(ctx, "key-1", time.Minute, op)
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, "done", result.Response)

	assert.Equal(t, 1, calls)
}

func TestManager_DifferentKeysRunIndependently(t *testing.T) {
	manager := NewManager(NewMemoryStore(testLogger()), testLogger())
	ctx := context.Background()

	calls := 0
	op := func(context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	_, err := manager.Execute(ctx, "key-1", time.Minute, op)
	require.NoError(t, err)
	_, err = manager.Execute(ctx, "key-2", time.Minute, op)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestManager_FailedOperationIsNotRecorded(t *testing.T) {
	manager := NewManager(NewMemoryStore(testLogger()), testLogger())
	ctx := context.Background()

	opErr := errors.New("handler failed")
	calls := 0

	_, err := manager.Execute(ctx, "key-1", time.Minute, func(context.Context) (interface{}, error) {
		calls++
		return nil, opErr
	})
	assert.ErrorIs(t, err, opErr)

	// a failure leaves no completed record, so a retry runs the operation again
	result, err := manager.Execute(ctx, "key-1", time.Minute, func(context.Context) (interface{}, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, calls)
}

func TestManager_ConcurrentKeyReportsInProgress(t *testing.T) {
	store := NewMemoryStore(testLogger())
	manager := NewManager(store, testLogger())
	ctx := context.Background()

	// simulate another process holding the lock with a processing record
	locked, err := store.Lock(ctx, "key-1", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)
	require.NoError(t, store.Set(ctx, "key-1", &Record{Status: StatusProcessing}, time.Minute))

	_, err = manager.Execute(ctx, "key-1", time.Minute, func(context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrRequestInProgress)
}

func TestMemoryStore_RecordsExpire(t *testing.T) {
	store := NewMemoryStore(testLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key-1", &Record{Status: StatusCompleted}, 10*time.Millisecond))

	record, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.NotNil(t, record)

	time.Sleep(20 * time.Millisecond)

	record, err = store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUpdateKey(t *testing.T) {
	// redelivered updates map to the same key
	assert.Equal(t, UpdateKey(1, 42, ""), UpdateKey(1, 42, ""))
	assert.NotEqual(t, UpdateKey(1, 42, ""), UpdateKey(1, 43, ""))
	assert.NotEqual(t, UpdateKey(1, 42, ""), UpdateKey(2, 42, ""))

	// a callback ID takes precedence over the update ID
	assert.Equal(t, UpdateKey(1, 42, "cb"), UpdateKey(1, 99, "cb"))
	assert.NotEqual(t, UpdateKey(1, 0, "cb1"), UpdateKey(1, 0, "cb2"))
}
