// Package keyboard renders the bot's inline and reply keyboards with
// localized labels.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
)

// Callback action identifiers shared between keyboards and the router.
const (
	ActionGenre     = "genre"
	ActionFavorites = "favorites"
	ActionLanguage  = "lang"
	ActionAdmin     = "admin"
)

// Admin callback payloads.
const (
	AdminActionStats      = "stats"
	AdminActionBackup     = "backup"
	AdminActionClearCache = "clear_cache"
	AdminActionBack       = "back"
)

// GenreMenu builds the inline genre picker, two genres per row, with the
// favorites shortcut on its own last row.
func GenreMenu(t i18n.Translator) *telebot.ReplyMarkup {
	builder := NewInlineKeyboard()

	row := make([]InlineButton, 0, 2)
	for _, genre := range catalog.Genres {
		row = append(row, InlineButton{
			Text:   t.T(catalog.LabelKey(genre.Key)),
			Unique: ActionGenre,
			Data:   genre.Key,
		})

		if len(row) == 2 {
			builder.AddRow(row...)
			row = make([]InlineButton, 0, 2)
		}
	}
	if len(row) > 0 {
		builder.AddRow(row...)
	}

	builder.AddRow(InlineButton{
		Text:   t.T(i18n.KeyBtnFavorites),
		Unique: ActionFavorites,
	})

	return builder.Build()
}

// BookMenu builds the localized reply keyboard shown while browsing a book.
func BookMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	pagesBtn := markup.Text(t.T(i18n.KeyBtnPages))
	descriptionBtn := markup.Text(t.T(i18n.KeyBtnDescription))
	favoriteBtn := markup.Text(t.T(i18n.KeyBtnAddFavorite))
	nextBtn := markup.Text(t.T(i18n.KeyBtnNext))
	newGenreBtn := markup.Text(t.T(i18n.KeyBtnNewGenre))

	markup.Reply(
		markup.Row(pagesBtn, descriptionBtn),
		markup.Row(favoriteBtn, nextBtn),
		markup.Row(newGenreBtn),
	)

	return markup
}

// AdminMenu builds the admin panel inline keyboard, one action per row.
func AdminMenu(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: t.T(i18n.KeyBtnAdminStats), Unique: ActionAdmin, Data: AdminActionStats}).
		AddRow(InlineButton{Text: t.T(i18n.KeyBtnAdminBackup), Unique: ActionAdmin, Data: AdminActionBackup}).
		AddRow(InlineButton{Text: t.T(i18n.KeyBtnAdminClearCache), Unique: ActionAdmin, Data: AdminActionClearCache}).
		Build()
}

// AdminBackMenu builds the single back button shown under admin results.
func AdminBackMenu(t i18n.Translator) *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(InlineButton{Text: t.T(i18n.KeyBtnAdminBack), Unique: ActionAdmin, Data: AdminActionBack}).
		Build()
}

// LanguageMenu builds the language picker.
func LanguageMenu() *telebot.ReplyMarkup {
	return NewInlineKeyboard().
		AddRow(
			InlineButton{Text: "🇷🇺 Русский", Unique: ActionLanguage, Data: "ru"},
			InlineButton{Text: "🇬🇧 English", Unique: ActionLanguage, Data: "en"},
		).
		Build()
}
