// Package storage implements the durable JSON-file store for users,
// favorites, the per-genre result cache, and aggregate stats.
package storage

import (
	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

// Store defines the persistence operations used by the bot. Every mutating
// operation reports a definite outcome instead of propagating faults: the
// in-memory structure stays authoritative even when a file write fails.
type Store interface {
	// AddUser registers a user with the given interface language. Returns
	// false when the user already exists (idempotent, language untouched).
	AddUser(userID int64, language string) bool
	// UserLanguage returns the user's language, defaulting to Russian for
	// unknown users.
	UserLanguage(userID int64) string
	// SetUserLanguage changes the language of an existing user. Returns
	// false for unknown users.
	SetUserLanguage(userID int64, language string) bool
	// AddToFavorites extracts a favorite record from a raw catalog book and
	// appends it to the user's list. Returns false on malformed input or
	// when the book is already present.
	AddToFavorites(userID int64, book domain.Book) bool
	// Favorites returns the user's favorites in insertion order, empty for
	// unknown users.
	Favorites(userID int64) []domain.Favorite
	// CacheBooks overwrites the cache entry for the genre with the list and
	// the current timestamp.
	CacheBooks(genre string, books []domain.Book) bool
	// CachedBooks returns the cached list when present and fresher than the
	// freshness window; expired entries are treated as absent.
	CachedBooks(genre string) ([]domain.Book, bool)
	// ClearCache removes every cache entry across all genres.
	ClearCache() bool
	// Stats returns the current aggregate snapshot.
	Stats() domain.Stats
	// CreateBackup writes a timestamped full snapshot alongside the data
	// file without touching it.
	CreateBackup() error
}
