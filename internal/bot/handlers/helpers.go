package handlers

import (
	"html"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// descriptionLimit caps how much of a book description is shown in chat.
const descriptionLimit = 500

// translatorFor resolves the sender's stored interface language.
func translatorFor(m *i18n.Manager, store storage.Store, c telebot.Context) i18n.Translator {
	lang := ""
	if store != nil && c != nil && c.Sender() != nil {
		lang = store.UserLanguage(c.Sender().ID)
	}

	return m.Translator(lang)
}

func respondCallback(c telebot.Context, text string, alert bool) error {
	if c == nil {
		return nil
	}
	return c.Respond(&telebot.CallbackResponse{
		Text:      text,
		ShowAlert: alert,
	})
}

// bookCaption renders the title and author lines shown under every cover.
func bookCaption(t i18n.Translator, book domain.Book) string {
	title := strings.TrimSpace(book.VolumeInfo.Title)
	if title == "" {
		title = t.T(i18n.KeyNoTitle)
	}

	author := strings.Join(book.VolumeInfo.Authors, ", ")
	if author == "" {
		author = t.T(i18n.KeyUnknownAuthor)
	}

	return t.Tf(i18n.KeyBookTitle, html.EscapeString(title)) + "\n" + t.Tf(i18n.KeyBookAuthor, html.EscapeString(author))
}

// sendBook delivers the current book as a photo message with the browsing keyboard.
func sendBook(c telebot.Context, t i18n.Translator, book domain.Book) error {
	photo := &telebot.Photo{
		File:    telebot.FromURL(book.CoverURL()),
		Caption: bookCaption(t, book),
	}

	return c.Send(photo, &telebot.SendOptions{ParseMode: telebot.ModeHTML}, keyboard.BookMenu(t))
}

// truncateDescription limits the text to descriptionLimit runes with an ellipsis.
func truncateDescription(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionLimit {
		return text
	}

	return string(runes[:descriptionLimit]) + "..."
}
