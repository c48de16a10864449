package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// NewLanguageHandler shows the language picker.
func NewLanguageHandler(store storage.Store, m *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		t := translatorFor(m, store, c)

		return c.Send(t.T(i18n.KeyChooseLanguage), keyboard.LanguageMenu())
	}
}

// HandleLanguageSelection stores the chosen language and redraws the start
// message in it.
func HandleLanguageSelection(store storage.Store, m *i18n.Manager, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}

		_, lang, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil || !domain.IsSupportedLanguage(lang) {
			t := translatorFor(m, store, c)
			return respondCallback(c, t.T(i18n.KeyInternalError), true)
		}

		userID := c.Sender().ID
		store.AddUser(userID, lang)
		if !store.SetUserLanguage(userID, lang) {
			log.Error("failed to persist language choice", slog.Int64("user_id", userID), slog.String("lang", lang))
		}

		t := m.Translator(lang)
		if err := respondCallback(c, "", false); err != nil {
			log.Debug("failed to ack language callback", slog.Any("error", err))
		}

		return c.Edit(t.T(i18n.KeyStart), keyboard.GenreMenu(t))
	}
}
