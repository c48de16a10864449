package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryLimiter is the in-process Limiter used when Redis is disabled. One
// timestamp slice per key, trimmed on every check.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	log     *slog.Logger
}

// NewMemoryLimiter returns an in-memory limiter implementation.
func NewMemoryLimiter(log *slog.Logger) *MemoryLimiter {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryLimiter{
		windows: make(map[string][]time.Time),
		log:     log,
	}
}

// Check enforces a sliding-window limit for the provided key.
func (m *MemoryLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	recent := trimBefore(m.windows[key], windowStart)
	count := len(recent)

	allowed := count < limit
	if allowed {
		recent = append(recent, now)
		count++
	}
	m.windows[key] = recent

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   windowStart.Add(window),
	}

	if !allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

// Cleanup removes keys that have seen no requests for more than maxAge.
func (m *MemoryLimiter) Cleanup(maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, requests := range m.windows {
		if len(requests) == 0 || requests[len(requests)-1].Before(cutoff) {
			delete(m.windows, key)
			removed++
		}
	}

	if removed > 0 {
		m.log.Debug("rate limit windows cleaned", slog.Int("keys_removed", removed))
	}
}

func trimBefore(requests []time.Time, windowStart time.Time) []time.Time {
	first := 0
	for first < len(requests) && requests[first].Before(windowStart) {
		first++
	}

	if first == 0 {
		return requests
	}

	copy(requests, requests[first:])
	return requests[:len(requests)-first]
}
