package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *storage.JSONStore {
	t.Helper()
	return storage.NewJSONStore(filepath.Join(t.TempDir(), "books.json"), testLogger())
}

// fakeProvider counts calls and returns a fixed response.
type fakeProvider struct {
	calls int
	books []domain.Book
	err   error
}

func (p *fakeProvider) Search(ctx context.Context, query string) ([]domain.Book, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.books, nil
}

func bookWithCover(id string) domain.Book {
	return domain.Book{
		ID: id,
		VolumeInfo: domain.VolumeInfo{
			Title: "book " + id,
			ImageLinks: domain.ImageLinks{
				Thumbnail: "https://covers.example/" + id + ".jpg",
			},
		},
	}
}

func bookWithoutCover(id string) domain.Book {
	return domain.Book{
		ID:         id,
		VolumeInfo: domain.VolumeInfo{Title: "book " + id},
	}
}

func TestGateway_FetchesAndCaches(t *testing.T) {
	provider := &fakeProvider{books: []domain.Book{bookWithCover("a"), bookWithCover("b")}}
	store := testStore(t)
	gateway := NewGateway(provider, store, testLogger())

	genre := Genre{Key: "fantasy", Query: "subject:fantasy"}

	books, ok := gateway.BooksForGenre(context.Background(), genre)
	require.True(t, ok)
	assert.Len(t, books, 2)
	assert.Equal(t, 1, provider.calls)

	// the second lookup must be served from the cache
	books, ok = gateway.BooksForGenre(context.Background(), genre)
	require.True(t, ok)
	assert.Len(t, books, 2)
	assert.Equal(t, 1, provider.calls)
}

func TestGateway_FiltersBooksWithoutCovers(t *testing.T) {
	provider := &fakeProvider{books: []domain.Book{
		bookWithCover("a"),
		bookWithoutCover("b"),
		bookWithCover("c"),
	}}
	gateway := NewGateway(provider, testStore(t), testLogger())

	books, ok := gateway.BooksForGenre(context.Background(), Genre{Key: "horror", Query: "subject:horror"})
	require.True(t, ok)
	require.Len(t, books, 2)
	assert.Equal(t, "a", books[0].ID)
	assert.Equal(t, "c", books[1].ID)
}

func TestGateway_EmptyAfterFilterIsNotCached(t *testing.T) {
	provider := &fakeProvider{books: []domain.Book{bookWithoutCover("a")}}
	store := testStore(t)
	gateway := NewGateway(provider, store, testLogger())

	genre := Genre{Key: "poetry", Query: "subject:poetry"}

	books, ok := gateway.BooksForGenre(context.Background(), genre)
	assert.True(t, ok, "fetch succeeded even though nothing is usable")
	assert.Empty(t, books)

	_, cached := store.CachedBooks(genre.Key)
	assert.False(t, cached)

	// an empty result must not poison the cache for the next attempt
	provider.books = []domain.Book{bookWithCover("b")}
	books, ok = gateway.BooksForGenre(context.Background(), genre)
	require.True(t, ok)
	assert.Len(t, books, 1)
}

func TestGateway_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	store := testStore(t)
	gateway := NewGateway(provider, store, testLogger())

	genre := Genre{Key: "scifi", Query: "subject:science+fiction"}

	books, ok := gateway.BooksForGenre(context.Background(), genre)
	assert.False(t, ok)
	assert.Nil(t, books)
	assert.Greater(t, provider.calls, 1, "transient failures are retried")

	_, cached := store.CachedBooks(genre.Key)
	assert.False(t, cached)
}

func TestGenreByKey(t *testing.T) {
	genre, ok := GenreByKey("fantasy")
	require.True(t, ok)
	assert.Equal(t, "fantasy", genre.Key)
	assert.NotEmpty(t, genre.Query)

	_, ok = GenreByKey("cooking")
	assert.False(t, ok)
}
