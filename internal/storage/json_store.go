package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

// FreshnessWindow is the maximum age of a cache entry before it is treated as
// absent. Compared as elapsed wall-clock time, not calendar days.
const FreshnessWindow = 24 * time.Hour

const backupTimeFormat = "20060102150405"

// cacheEntry is a cached per-genre result list with its fetch time.
type cacheEntry struct {
	Books     []domain.Book `json:"books"`
	Timestamp time.Time     `json:"timestamp"`
}

// fileData is the top-level persisted document.
type fileData struct {
	Favorites map[string][]domain.Favorite  `json:"favorites"`
	Cache     map[string]cacheEntry         `json:"cache"`
	Users     map[string]domain.UserProfile `json:"users"`
	Stats     domain.Stats                  `json:"stats"`
}

func defaultFileData() fileData {
	return fileData{
		Favorites: make(map[string][]domain.Favorite),
		Cache:     make(map[string]cacheEntry),
		Users:     make(map[string]domain.UserProfile),
		Stats:     domain.Stats{},
	}
}

// JSONStore is a Store backed by a single JSON document rewritten whole on
// every mutation. A mutex serializes read-modify-write sequences; the file
// handle is never held across operations.
type JSONStore struct {
	path string
	log  *slog.Logger
	now  func() time.Time

	mu   sync.Mutex
	data fileData
}

// Option customizes JSONStore construction.
type Option func(*JSONStore)

// WithClock overrides the wall clock, used by freshness tests.
func WithClock(now func() time.Time) Option {
	return func(s *JSONStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJSONStore loads the backing file if present. On a missing file or any
// read/parse failure it starts from a fresh default structure: the store is
// never allowed to prevent startup.
func NewJSONStore(path string, log *slog.Logger, opts ...Option) *JSONStore {
	if log == nil {
		log = slog.Default()
	}

	s := &JSONStore{
		path: path,
		log:  log,
		now:  time.Now,
		data: defaultFileData(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.load()

	return s
}

func (s *JSONStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("failed to read data file, starting fresh", slog.String("path", s.path), slog.Any("error", err))
		}
		return
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Error("failed to parse data file, starting fresh", slog.String("path", s.path), slog.Any("error", err))
		return
	}

	if data.Favorites == nil {
		data.Favorites = make(map[string][]domain.Favorite)
	}
	if data.Cache == nil {
		data.Cache = make(map[string]cacheEntry)
	}
	if data.Users == nil {
		data.Users = make(map[string]domain.UserProfile)
	}

	s.data = data
}

// save serializes the whole in-memory structure and overwrites the backing
// file. Failure is logged and reported; in-memory state stays untouched so
// the next successful save catches up. Caller must hold the mutex.
func (s *JSONStore) save() bool {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Error("failed to create data directory", slog.String("path", s.path), slog.Any("error", err))
		return false
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.log.Error("failed to encode data file", slog.String("path", s.path), slog.Any("error", err))
		return false
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.log.Error("failed to write data file", slog.String("path", s.path), slog.Any("error", err))
		return false
	}

	return true
}

// AddUser registers the user unless already present. The second call with the
// same ID is a no-op and never changes the stored language.
func (s *JSONStore) AddUser(userID int64, language string) bool {
	if !domain.IsSupportedLanguage(language) {
		language = domain.DefaultLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey(userID)
	if _, ok := s.data.Users[key]; ok {
		return false
	}

	s.data.Users[key] = domain.UserProfile{Language: language}
	s.data.Stats.TotalUsers = len(s.data.Users)
	s.save()

	return true
}

// UserLanguage never errors on a missing user.
func (s *JSONStore) UserLanguage(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile, ok := s.data.Users[userKey(userID)]; ok && profile.Language != "" {
		return profile.Language
	}

	return domain.DefaultLanguage
}

// SetUserLanguage mutates the language of a known user.
func (s *JSONStore) SetUserLanguage(userID int64, language string) bool {
	if !domain.IsSupportedLanguage(language) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey(userID)
	if _, ok := s.data.Users[key]; !ok {
		return false
	}

	s.data.Users[key] = domain.UserProfile{Language: language}
	s.save()

	return true
}

// AddToFavorites enforces set-like uniqueness per user on the book ID and
// recomputes the favorites total. Malformed records fail soft.
func (s *JSONStore) AddToFavorites(userID int64, book domain.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == "" || book.VolumeInfo.Title == "" {
		s.log.Warn("refusing malformed catalog record for favorites",
			slog.Int64("user_id", userID),
			slog.String("book_id", book.ID),
		)
		return false
	}

	key := userKey(userID)
	for _, existing := range s.data.Favorites[key] {
		if existing.BookID == book.ID {
			return false
		}
	}

	author := strings.Join(book.VolumeInfo.Authors, ", ")
	if author == "" {
		author = s.unknownAuthorLocked(key)
	}

	s.data.Favorites[key] = append(s.data.Favorites[key], domain.Favorite{
		BookID:   book.ID,
		Title:    book.VolumeInfo.Title,
		Author:   author,
		CoverURL: book.CoverURL(),
	})

	total := 0
	for _, list := range s.data.Favorites {
		total += len(list)
	}
	s.data.Stats.TotalFavorites = total

	s.save()
	s.log.Info("book added to favorites", slog.Int64("user_id", userID), slog.String("book_id", book.ID))

	return true
}

// Favorites returns a copy, never nil.
func (s *JSONStore) Favorites(userID int64) []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.data.Favorites[userKey(userID)]
	result := make([]domain.Favorite, len(list))
	copy(result, list)

	return result
}

// CacheBooks overwrites any existing entry for the genre.
func (s *JSONStore) CacheBooks(genre string, books []domain.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Cache[genre] = cacheEntry{
		Books:     append([]domain.Book(nil), books...),
		Timestamp: s.now().UTC(),
	}

	return s.save()
}

// CachedBooks treats entries older than the freshness window as absent.
// Expired entries are not purged until an explicit ClearCache.
func (s *JSONStore) CachedBooks(genre string) ([]domain.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data.Cache[genre]
	if !ok {
		return nil, false
	}

	if s.now().Sub(entry.Timestamp) >= FreshnessWindow {
		return nil, false
	}

	books := make([]domain.Book, len(entry.Books))
	copy(books, entry.Books)

	return books, true
}

// ClearCache empties the whole cache map across all genres.
func (s *JSONStore) ClearCache() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Cache = make(map[string]cacheEntry)

	return s.save()
}

// Stats returns the aggregate snapshot without recomputing it.
func (s *JSONStore) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Stats
}

// CreateBackup writes a full snapshot to <stem>.backup.<timestamp><ext> next
// to the data file, leaving the primary file untouched.
func (s *JSONStore) CreateBackup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.log.Error("failed to encode backup", slog.Any("error", err))
		return fmt.Errorf("encode backup: %w", err)
	}

	backupPath := s.backupPathLocked()
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		s.log.Error("failed to create backup directory", slog.Any("error", err))
		return fmt.Errorf("create backup dir: %w", err)
	}

	if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
		s.log.Error("failed to write backup", slog.String("path", backupPath), slog.Any("error", err))
		return fmt.Errorf("write backup: %w", err)
	}

	s.log.Info("backup created", slog.String("path", backupPath))

	return nil
}

// HealthCheck verifies that the data directory is writable.
func (s *JSONStore) HealthCheck(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}

	probe := filepath.Join(dir, ".health")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}

	return os.Remove(probe)
}

func (s *JSONStore) backupPathLocked() string {
	ext := filepath.Ext(s.path)
	stem := strings.TrimSuffix(s.path, ext)
	return fmt.Sprintf("%s.backup.%s%s", stem, s.now().Format(backupTimeFormat), ext)
}

// unknownAuthorLocked picks the localized placeholder matching the owner's
// stored language.
func (s *JSONStore) unknownAuthorLocked(userKey string) string {
	if profile, ok := s.data.Users[userKey]; ok && profile.Language == domain.LangEN {
		return "Unknown"
	}
	return "Неизвестен"
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
