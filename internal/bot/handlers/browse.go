package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
	"github.com/bookworm-labs/bookworm-bot/internal/domain"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/session"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
	"github.com/bookworm-labs/bookworm-bot/internal/translate"
	"github.com/bookworm-labs/bookworm-bot/pkg/metrics"
)

// HandleGenreSelection starts a browsing session for the picked genre.
func HandleGenreSelection(
	gateway *catalog.Gateway,
	machine session.Machine,
	store storage.Store,
	m *i18n.Manager,
	log *slog.Logger,
) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}

		t := translatorFor(m, store, c)

		_, genreKey, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil || genreKey == "" {
			return respondCallback(c, t.T(i18n.KeyInternalError), true)
		}

		genre, ok := catalog.GenreByKey(genreKey)
		if !ok {
			log.Warn("unknown genre selected", slog.String("genre", genreKey))
			return respondCallback(c, t.T(i18n.KeyInternalError), true)
		}

		if err := respondCallback(c, "", false); err != nil {
			log.Debug("failed to ack genre callback", slog.Any("error", err))
		}

		if err := c.Send(t.Tf(i18n.KeySearching, t.T(catalog.LabelKey(genre.Key)))); err != nil {
			return err
		}

		ctx := context.Background()
		books, ok := gateway.BooksForGenre(ctx, genre)
		if !ok || len(books) == 0 {
			return c.Send(t.T(i18n.KeyNoBooks))
		}

		userID := c.Sender().ID
		if err := machine.StartBrowsing(ctx, userID, books); err != nil {
			log.Error("failed to start browsing", slog.Int64("user_id", userID), slog.Any("error", err))
			return c.Send(t.T(i18n.KeyInternalError))
		}

		return sendBook(c, t, books[0])
	}
}

// browsingAction identifies which reply-keyboard button the user pressed.
type browsingAction int

const (
	actionNone browsingAction = iota
	actionPages
	actionDescription
	actionAddFavorite
	actionNext
	actionNewGenre
)

// NewBrowsingHandler processes reply-keyboard presses while a book list is
// open. Button labels are matched in every loaded language so a user who
// switched languages mid-session keeps a working keyboard.
func NewBrowsingHandler(
	machine session.Machine,
	store storage.Store,
	translator *translate.Service,
	m *i18n.Manager,
	log *slog.Logger,
) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		t := translatorFor(m, store, c)
		userID := c.Sender().ID
		ctx := context.Background()

		action := matchBrowsingAction(m, c.Text())
		if action == actionNone {
			return c.Send(t.T(i18n.KeyUnknownCommand))
		}

		if action == actionNewGenre {
			if err := machine.Reset(ctx, userID); err != nil {
				log.Error("failed to reset session", slog.Int64("user_id", userID), slog.Any("error", err))
				return c.Send(t.T(i18n.KeyInternalError))
			}
			return c.Send(t.T(i18n.KeyChooseGenre), keyboard.GenreMenu(t))
		}

		if action == actionNext {
			book, err := machine.Advance(ctx, userID)
			if err != nil {
				return handleSessionError(c, t, err)
			}
			return sendBook(c, t, book)
		}

		book, err := machine.Current(ctx, userID)
		if err != nil {
			return handleSessionError(c, t, err)
		}

		switch action {
		case actionPages:
			if book.VolumeInfo.PageCount > 0 {
				return c.Send(t.Tf(i18n.KeyPages, book.VolumeInfo.PageCount))
			}
			return c.Send(t.T(i18n.KeyPagesUnknown))

		case actionDescription:
			return sendDescription(ctx, c, t, translator, book)

		case actionAddFavorite:
			if store.AddToFavorites(userID, book) {
				return c.Send(t.T(i18n.KeyAddedToFavorites))
			}
			return c.Send(t.T(i18n.KeyAlreadyInFavorites))
		}

		return nil
	}
}

// sendDescription shows the truncated description, appending a translation
// for Russian-speaking users when the text looks untranslated.
func sendDescription(ctx context.Context, c telebot.Context, t i18n.Translator, translator *translate.Service, book domain.Book) error {
	description := book.VolumeInfo.Description
	if description == "" {
		return c.Send(t.T(i18n.KeyNoDescription))
	}

	description = truncateDescription(description)
	message := t.Tf(i18n.KeyDescription, description)

	if translator != nil && translate.NeedsTranslation(description, t.Lang()) {
		translated := translator.Describe(ctx, description, t.Lang())
		if translated != description {
			metrics.RecordTranslation("translated")
			message += t.Tf(i18n.KeyTranslatedDescription, translated)
		} else {
			metrics.RecordTranslation("failed")
		}
	} else {
		metrics.RecordTranslation("skipped")
	}

	return c.Send(message)
}

// handleSessionError maps a missing or stale session to the "no books"
// message instead of surfacing an internal error.
func handleSessionError(c telebot.Context, t i18n.Translator, err error) error {
	if errors.Is(err, session.ErrNoActiveBooks) || errors.Is(err, session.ErrStateNotFound) {
		return c.Send(t.T(i18n.KeyNoBooks), keyboard.GenreMenu(t))
	}
	if errors.Is(err, session.ErrStateLocked) {
		return nil
	}

	return err
}

func matchBrowsingAction(m *i18n.Manager, text string) browsingAction {
	if text == "" {
		return actionNone
	}

	labels := map[string]browsingAction{
		i18n.KeyBtnPages:       actionPages,
		i18n.KeyBtnDescription: actionDescription,
		i18n.KeyBtnAddFavorite: actionAddFavorite,
		i18n.KeyBtnNext:        actionNext,
		i18n.KeyBtnNewGenre:    actionNewGenre,
	}

	for _, lang := range m.Languages() {
		t := m.Translator(lang)
		for key, action := range labels {
			if text == t.T(key) {
				return action
			}
		}
	}

	return actionNone
}
