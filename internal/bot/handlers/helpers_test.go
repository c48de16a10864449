package handlers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookworm-labs/bookworm-bot/internal/domain"
)

// echoTranslator returns keys unchanged so assertions stay readable.
type echoTranslator struct{}

func (echoTranslator) T(key string) string { return key }

func (echoTranslator) Tf(key string, args ...any) string {
	return fmt.Sprintf("%s %v", key, args)
}

func (echoTranslator) Lang() string { return "ru" }

func TestTruncateDescription(t *testing.T) {
	short := "A short description."
	assert.Equal(t, short, truncateDescription(short))

	exact := strings.Repeat("x", descriptionLimit)
	assert.Equal(t, exact, truncateDescription(exact))

	long := strings.Repeat("x", descriptionLimit+50)
	got := truncateDescription(long)
	assert.Len(t, []rune(got), descriptionLimit+3)
	assert.True(t, strings.HasSuffix(got, "..."))

	// truncation counts runes, not bytes
	cyrillic := strings.Repeat("я", descriptionLimit+1)
	got = truncateDescription(cyrillic)
	assert.Equal(t, strings.Repeat("я", descriptionLimit)+"...", got)
}

func TestBookCaption_EscapesHTML(t *testing.T) {
	book := domain.Book{
		ID: "b1",
		VolumeInfo: domain.VolumeInfo{
			Title:   "Война & мир <draft>",
			Authors: []string{"Л. Толстой"},
		},
	}

	caption := bookCaption(echoTranslator{}, book)
	assert.Contains(t, caption, "Война &amp; мир &lt;draft&gt;")
	assert.NotContains(t, caption, "<draft>")
}

func TestBookCaption_Fallbacks(t *testing.T) {
	caption := bookCaption(echoTranslator{}, domain.Book{ID: "b1"})
	assert.Contains(t, caption, "msg.no_title")
	assert.Contains(t, caption, "msg.unknown_author")
}
