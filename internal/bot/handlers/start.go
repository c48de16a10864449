package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/session"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// NewStartHandler greets the user and shows the genre picker. Any active
// browsing session is discarded so /start always lands on a clean slate.
func NewStartHandler(machine session.Machine, store storage.Store, m *i18n.Manager, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		userID := c.Sender().ID
		if machine != nil {
			if err := machine.Reset(context.Background(), userID); err != nil {
				log.Warn("failed to reset session on start", slog.Int64("user_id", userID), slog.Any("error", err))
			}
		}

		t := translatorFor(m, store, c)

		return c.Send(t.T(i18n.KeyStart), keyboard.GenreMenu(t))
	}
}

// NewHelpHandler sends the localized command reference.
func NewHelpHandler(store storage.Store, m *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		t := translatorFor(m, store, c)

		return c.Send(t.T(i18n.KeyHelp))
	}
}

// NewUnknownHandler nudges the user towards the keyboards for anything the
// router could not match.
func NewUnknownHandler(store storage.Store, m *i18n.Manager) Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		t := translatorFor(m, store, c)

		return c.Send(t.T(i18n.KeyUnknownCommand))
	}
}
