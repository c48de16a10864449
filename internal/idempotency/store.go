package idempotency

import (
	"context"
	"time"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Record is the stored outcome of a guarded operation.
type Record struct {
	Status   string
	Response []byte
}

// Store persists idempotency records and short-lived processing locks.
type Store interface {
	Lock(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, record *Record, ttl time.Duration) error
	ReleaseLock(ctx context.Context, key string) error
}
