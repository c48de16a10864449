// Package translate adapts book descriptions to the user's interface
// language through an external translation endpoint. Translation is best
// effort only: every failure degrades to the original text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

const (
	// maxInputRunes caps what is sent to the provider in one call.
	maxInputRunes = 5000
	// minInputRunes is the shortest text worth translating at all.
	minInputRunes = 10
	// detectionWindow is how many leading runes are inspected for non-ASCII
	// characters when deciding whether the text is already localized.
	detectionWindow = 100
)

// Provider performs a single text translation between two languages.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Client is the HTTP Provider implementation, shaped after the public
// translate endpoint's segment-array response.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a translation client with a bounded request timeout.
func NewClient(cfg config.TranslateConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
	}
}

// Translate sends one request and concatenates the translated segments.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation request: unexpected status %d", resp.StatusCode)
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}

	translated, err := joinSegments(payload)
	if err != nil {
		return "", err
	}

	return translated, nil
}

// joinSegments extracts the translated text from the provider's nested
// segment arrays: the first element is a list of [translated, original, ...]
// tuples.
func joinSegments(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("translation response: empty payload")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("translation response: unexpected segment shape")
	}

	var builder strings.Builder
	for _, segment := range segments {
		tuple, ok := segment.([]any)
		if !ok || len(tuple) == 0 {
			continue
		}

		if part, ok := tuple[0].(string); ok {
			builder.WriteString(part)
		}
	}

	if builder.Len() == 0 {
		return "", fmt.Errorf("translation response: no segments")
	}

	return builder.String(), nil
}

// Service decides whether a description needs translating at all and shields
// callers from provider faults.
type Service struct {
	provider Provider
	log      *slog.Logger
}

// NewService wraps a Provider with the skip heuristics.
func NewService(provider Provider, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		provider: provider,
		log:      log,
	}
}

// Describe returns the description adjusted to the target language. Texts
// that are too short or already contain non-ASCII characters near the start
// are returned as-is; so is the original on any provider failure.
func (s *Service) Describe(ctx context.Context, text, targetLang string) string {
	if !NeedsTranslation(text, targetLang) {
		return text
	}

	input := text
	if utf8.RuneCountInString(input) > maxInputRunes {
		runes := []rune(input)
		input = string(runes[:maxInputRunes])
	}

	translated, err := s.provider.Translate(ctx, input, "en", targetLang)
	if err != nil {
		s.log.Warn("translation failed, using original text", slog.Any("error", err))
		return text
	}

	return translated
}

// NeedsTranslation applies the heuristics for skipping a translation call.
// Only Russian targets are translated; English descriptions pass through.
func NeedsTranslation(text, targetLang string) bool {
	if targetLang != "ru" {
		return false
	}

	if utf8.RuneCountInString(text) < minInputRunes {
		return false
	}

	inspected := 0
	for _, r := range text {
		if r > 127 {
			return false
		}
		inspected++
		if inspected >= detectionWindow {
			break
		}
	}

	return true
}
