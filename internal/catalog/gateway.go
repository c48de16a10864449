package catalog

import (
	"context"
	"log/slog"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	apperrors "github.com/bookworm-labs/bookworm-bot/internal/errors"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// Fetch outcome labels reported to the metrics recorder.
const (
	ResultCacheHit = "cache_hit"
	ResultFetched  = "fetched"
	ResultError    = "error"
)

var fetchRecorder = func(result string) {}

// RegisterFetchRecorder allows external packages to observe fetch outcomes.
func RegisterFetchRecorder(recorder func(result string)) {
	if recorder == nil {
		fetchRecorder = func(string) {}
		return
	}

	fetchRecorder = recorder
}

// Gateway serves genre lookups from the store cache first and falls back to
// the provider, with retries and a circuit breaker guarding the remote call.
type Gateway struct {
	provider Provider
	store    storage.Store
	breaker  *apperrors.CircuitBreaker
	log      *slog.Logger
}

// NewGateway wires the cache-first lookup path.
func NewGateway(provider Provider, store storage.Store, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}

	return &Gateway{
		provider: provider,
		store:    store,
		breaker:  apperrors.NewCircuitBreaker(),
		log:      log,
	}
}

// BooksForGenre returns the book list for the genre. The second return value
// reports whether a usable answer was produced at all: false means the
// provider failed and nothing was cached, while (empty, true) means the fetch
// succeeded but no record passed the cover filter. Fresh cache entries bypass
// the provider entirely.
func (g *Gateway) BooksForGenre(ctx context.Context, genre Genre) ([]domain.Book, bool) {
	if cached, ok := g.store.CachedBooks(genre.Key); ok {
		fetchRecorder(ResultCacheHit)
		g.log.Debug("catalog cache hit", slog.String("genre", genre.Key), slog.Int("books", len(cached)))
		return cached, true
	}

	var fetched []domain.Book
	err := apperrors.WithRetry(ctx, func() error {
		return g.breaker.Call(func() error {
			books, searchErr := g.provider.Search(ctx, genre.Query)
			if searchErr != nil {
				return apperrors.NewCatalogError(searchErr)
			}

			fetched = books
			return nil
		})
	})
	if err != nil {
		fetchRecorder(ResultError)
		g.log.Error("catalog fetch failed", slog.String("genre", genre.Key), slog.Any("error", err))
		return nil, false
	}

	usable := filterWithCovers(fetched)
	fetchRecorder(ResultFetched)
	g.log.Info("catalog fetched",
		slog.String("genre", genre.Key),
		slog.Int("fetched", len(fetched)),
		slog.Int("usable", len(usable)),
	)

	if len(usable) > 0 {
		g.store.CacheBooks(genre.Key, usable)
	}

	return usable, true
}

// filterWithCovers drops records without a cover thumbnail so every shown
// book can be rendered as a photo message.
func filterWithCovers(books []domain.Book) []domain.Book {
	usable := make([]domain.Book, 0, len(books))
	for _, book := range books {
		if book.HasCover() {
			usable = append(usable, book)
		}
	}

	return usable
}
