// Package redis constructs the shared Redis client used for sessions, rate
// limiting, and idempotency records.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

// New creates a Redis client from configuration and verifies the connection
// with Ping. Returns nil without error when Redis is disabled: callers treat
// a nil client as "use the in-memory fallback".
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
