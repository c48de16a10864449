package idempotency

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore is the in-process Store used when Redis is disabled. It covers
// double taps within one process; redeliveries to a restarted process are
// not deduplicated without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	locks   map[string]time.Time
	log     *slog.Logger
}

// NewMemoryStore builds an in-memory Store.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryStore{
		records: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
		log:     log,
	}
}

func (s *MemoryStore) Lock(_ context.Context, key string, lockTTL time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.locks[key]; ok && now.Before(expiry) {
		return false, nil
	}

	s.locks[key] = now.Add(lockTTL)

	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	record := entry.record

	return &record, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, record *Record, ttl time.Duration) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = memoryEntry{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) ReleaseLock(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)

	return nil
}

// Cleanup drops expired records and locks.
func (s *MemoryStore) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.records {
		if now.After(entry.expiresAt) {
			delete(s.records, key)
		}
	}
	for key, expiry := range s.locks {
		if now.After(expiry) {
			delete(s.locks, key)
		}
	}
}
