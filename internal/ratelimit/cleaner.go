package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cleaner periodically evicts stale rate-limit state, both the Redis sorted
// sets and the in-memory windows when that limiter is in use.
type Cleaner struct {
	redisClient *redis.Client
	memory      *MemoryLimiter
	log         *slog.Logger
	interval    time.Duration
}

// NewCleaner constructs a Cleaner instance. Either backend may be nil.
func NewCleaner(client *redis.Client, memory *MemoryLimiter, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		redisClient: client,
		memory:      memory,
		log:         log,
		interval:    interval,
	}
}

// Run starts the cleaner loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("rate limit cleaner stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			if c.memory != nil {
				c.memory.Cleanup(5 * time.Minute)
			}
			if c.redisClient != nil {
				c.cleanupRedis(ctx)
			}
		}
	}
}

func (c *Cleaner) cleanupRedis(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	const pattern = "ratelimit:*"
	const scanCount = 100

	cutoff := time.Now().Add(-5 * time.Minute).UnixMilli()
	var cursor uint64
	cleaned := 0

	for {
		keys, nextCursor, err := c.redisClient.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			c.log.Error("rate limit scan failed", slog.Any("error", err))
			return
		}

		for _, key := range keys {
			pipe := c.redisClient.TxPipeline()
			pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", cutoff))
			cardCmd := pipe.ZCard(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				c.log.Warn("cleanup pipeline failed", slog.String("key", key), slog.Any("error", err))
				continue
			}

			count, err := cardCmd.Result()
			if err != nil {
				c.log.Warn("failed to read zset cardinality", slog.String("key", key), slog.Any("error", err))
				continue
			}

			if count == 0 {
				if err := c.redisClient.Del(ctx, key).Err(); err != nil {
					c.log.Warn("failed to delete empty rate limit key", slog.String("key", key), slog.Any("error", err))
					continue
				}
				cleaned++
			}
		}

		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}

	if cleaned > 0 {
		c.log.Info("rate limit keys cleaned", slog.Int("keys_removed", cleaned))
	}
}
