package handlers

import (
	"html"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// NewFavoritesHandler lists the user's saved books, one message per book so
// covers render as photos.
func NewFavoritesHandler(store storage.Store, m *i18n.Manager, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		t := translatorFor(m, store, c)
		userID := c.Sender().ID

		favorites := store.Favorites(userID)
		if len(favorites) == 0 {
			return c.Send(t.T(i18n.KeyFavoritesEmpty))
		}

		for _, favorite := range favorites {
			caption := t.Tf(i18n.KeyBookTitle, html.EscapeString(favorite.Title)) +
				"\n" + t.Tf(i18n.KeyBookAuthor, html.EscapeString(favorite.Author))

			var err error
			if favorite.CoverURL != "" {
				photo := &telebot.Photo{
					File:    telebot.FromURL(favorite.CoverURL),
					Caption: caption,
				}
				err = c.Send(photo, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
			} else {
				err = c.Send(caption, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
			}

			if err != nil {
				log.Warn("failed to send favorite",
					slog.Int64("user_id", userID),
					slog.String("book_id", favorite.BookID),
					slog.Any("error", err),
				)
			}
		}

		return nil
	}
}

// HandleFavoritesCallback serves the favorites shortcut on the genre menu.
func HandleFavoritesCallback(store storage.Store, m *i18n.Manager, log *slog.Logger) CallbackHandler {
	list := NewFavoritesHandler(store, m, log)

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		if err := respondCallback(c, "", false); err != nil && log != nil {
			log.Debug("failed to ack favorites callback", slog.Any("error", err))
		}

		return list(c)
	}
}
