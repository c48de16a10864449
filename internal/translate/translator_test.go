package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNeedsTranslation(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		targetLang string
		want       bool
	}{
		{
			name:       "english text for russian user",
			text:       "A sweeping epic of political intrigue on a desert planet.",
			targetLang: "ru",
			want:       true,
		},
		{
			name:       "english target never translates",
			text:       "A sweeping epic of political intrigue on a desert planet.",
			targetLang: "en",
			want:       false,
		},
		{
			name:       "too short to bother",
			text:       "Short",
			targetLang: "ru",
			want:       false,
		},
		{
			name:       "cyrillic text is already localized",
			text:       "Эпическая сага о политических интригах на пустынной планете.",
			targetLang: "ru",
			want:       false,
		},
		{
			name:       "accented text counts as localized",
			text:       "Une épopée de la politique sur une planète désertique.",
			targetLang: "ru",
			want:       false,
		},
		{
			name:       "non-ascii beyond the detection window is ignored",
			text:       strings.Repeat("a", 150) + "é",
			targetLang: "ru",
			want:       true,
		},
		{
			name:       "empty text",
			text:       "",
			targetLang: "ru",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsTranslation(tt.text, tt.targetLang))
		})
	}
}

func TestClient_Translate(t *testing.T) {
	var gotSource, gotTarget, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSource = r.URL.Query().Get("sl")
		gotTarget = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")

		_, _ = w.Write([]byte(`[[["Первый сегмент. ","First segment. ",null],["Второй сегмент.","Second segment.",null]],null,"en"]`))
	}))
	defer server.Close()

	client := NewClient(config.TranslateConfig{BaseURL: server.URL})

	result, err := client.Translate(context.Background(), "First segment. Second segment.", "en", "ru")
	require.NoError(t, err)

	assert.Equal(t, "en", gotSource)
	assert.Equal(t, "ru", gotTarget)
	assert.Equal(t, "First segment. Second segment.", gotText)
	assert.Equal(t, "Первый сегмент. Второй сегмент.", result)
}

func TestClient_Translate_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(config.TranslateConfig{BaseURL: server.URL})

	_, err := client.Translate(context.Background(), "text to translate", "en", "ru")
	assert.Error(t, err)
}

// stubProvider returns a canned translation or error.
type stubProvider struct {
	result   string
	err      error
	lastText string
}

func (p *stubProvider) Translate(_ context.Context, text, _, _ string) (string, error) {
	p.lastText = text
	if p.err != nil {
		return "", p.err
	}
	return p.result, nil
}

func TestService_Describe_Translates(t *testing.T) {
	provider := &stubProvider{result: "Переведённое описание книги."}
	service := NewService(provider, testLogger())

	got := service.Describe(context.Background(), "An English book description.", "ru")
	assert.Equal(t, "Переведённое описание книги.", got)
}

func TestService_Describe_FailsSoft(t *testing.T) {
	provider := &stubProvider{err: errors.New("endpoint down")}
	service := NewService(provider, testLogger())

	original := "An English book description."
	got := service.Describe(context.Background(), original, "ru")
	assert.Equal(t, original, got)
}

func TestService_Describe_SkipsWithoutProviderCall(t *testing.T) {
	provider := &stubProvider{result: "должно не использоваться"}
	service := NewService(provider, testLogger())

	original := "Уже русское описание книги."
	got := service.Describe(context.Background(), original, "ru")
	assert.Equal(t, original, got)
	assert.Empty(t, provider.lastText, "provider must not be called")
}

func TestService_Describe_TruncatesLongInput(t *testing.T) {
	provider := &stubProvider{result: "перевод"}
	service := NewService(provider, testLogger())

	long := strings.Repeat("word ", 1200)
	service.Describe(context.Background(), long, "ru")

	assert.Equal(t, maxInputRunes, len([]rune(provider.lastText)))
}
