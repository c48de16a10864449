package keyboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
)

// echoTranslator returns the key itself so tests can assert structure
// without loading locale bundles.
type echoTranslator struct{}

func (echoTranslator) T(key string) string { return key }

func (echoTranslator) Tf(key string, args ...any) string {
	return fmt.Sprintf(key, args...)
}

func (echoTranslator) Lang() string { return "ru" }

func TestGenreMenu(t *testing.T) {
	markup := keyboard.GenreMenu(echoTranslator{})
	require.NotNil(t, markup)

	rows := markup.InlineKeyboard
	// 8 genres at two per row, plus the favorites row
	require.Len(t, rows, 5)

	for _, row := range rows[:4] {
		require.Len(t, row, 2)
		for _, btn := range row {
			assert.Contains(t, btn.Data, keyboard.ActionGenre+":")
		}
	}

	assert.Equal(t, "genre:"+catalog.Genres[0].Key, rows[0][0].Data)
	assert.Equal(t, "genre."+catalog.Genres[0].Key, rows[0][0].Text)

	favoritesRow := rows[4]
	require.Len(t, favoritesRow, 1)
	assert.Equal(t, keyboard.ActionFavorites, favoritesRow[0].Data)
}

func TestBookMenu(t *testing.T) {
	markup := keyboard.BookMenu(echoTranslator{})
	require.NotNil(t, markup)

	assert.True(t, markup.ResizeKeyboard)

	rows := markup.ReplyKeyboard
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 1)

	assert.Equal(t, "btn.pages", rows[0][0].Text)
	assert.Equal(t, "btn.new_genre", rows[2][0].Text)
}

func TestAdminMenu(t *testing.T) {
	markup := keyboard.AdminMenu(echoTranslator{})
	require.NotNil(t, markup)

	rows := markup.InlineKeyboard
	require.Len(t, rows, 3)

	assert.Equal(t, "admin:stats", rows[0][0].Data)
	assert.Equal(t, "admin:backup", rows[1][0].Data)
	assert.Equal(t, "admin:clear_cache", rows[2][0].Data)
}

func TestLanguageMenu(t *testing.T) {
	markup := keyboard.LanguageMenu()
	require.NotNil(t, markup)

	rows := markup.InlineKeyboard
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 2)

	assert.Equal(t, "lang:ru", rows[0][0].Data)
	assert.Equal(t, "lang:en", rows[0][1].Data)
}
