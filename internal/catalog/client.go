// Package catalog fetches books for a genre from the external search
// provider and maintains the per-genre result cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

// Provider abstracts the external full-text catalog API.
type Provider interface {
	Search(ctx context.Context, query string) ([]domain.Book, error)
}

// Client is the HTTP implementation of Provider, shaped after the Google
// Books volumes endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	log        *slog.Logger
}

// NewClient builds a catalog client with a bounded request timeout.
func NewClient(cfg config.CatalogConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 40
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		log:        log,
	}
}

// searchResponse mirrors the provider's result envelope.
type searchResponse struct {
	Items []domain.Book `json:"items"`
}

// Search issues one capped request for the query and decodes the record list.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Book, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return decoded.Items, nil
}
