package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

func TestClient_Search(t *testing.T) {
	var gotQuery, gotMax, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		gotKey = r.URL.Query().Get("key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "b1", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"]}},
				{"id": "b2", "volumeInfo": {"title": "Hyperion"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{
		BaseURL:    server.URL,
		APIKey:     "secret",
		MaxResults: 25,
	}, testLogger())

	books, err := client.Search(context.Background(), "subject:science fiction")
	require.NoError(t, err)

	assert.Equal(t, "subject:science fiction", gotQuery)
	assert.Equal(t, "25", gotMax)
	assert.Equal(t, "secret", gotKey)

	require.Len(t, books, 2)
	assert.Equal(t, "b1", books[0].ID)
	assert.Equal(t, "Dune", books[0].VolumeInfo.Title)
	assert.Equal(t, []string{"Frank Herbert"}, books[0].VolumeInfo.Authors)
}

func TestClient_Search_OmitsEmptyAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("key"))
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{BaseURL: server.URL}, testLogger())

	books, err := client.Search(context.Background(), "subject:poetry")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestClient_Search_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.CatalogConfig{BaseURL: server.URL}, testLogger())

	_, err := client.Search(context.Background(), "subject:horror")
	assert.ErrorContains(t, err, "unexpected status 429")
}
