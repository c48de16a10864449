package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/handlers"
	errors "github.com/bookworm-labs/bookworm-bot/internal/errors"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					userMsg := "⚠️ Something went wrong. Please try again later."
					if errHandler != nil {
						appErr := errors.NewStateError(fmt.Sprintf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if c != nil {
						if sendErr := c.Send(userMsg); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *errors.Handler, store storage.Store, m *i18n.Manager) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			userMsg := ""
			if errHandler != nil {
				userMsg, _ = errHandler.Handle(context.Background(), err)
			}

			if userMsg == "" && m != nil {
				lang := ""
				if store != nil && c != nil && c.Sender() != nil {
					lang = store.UserLanguage(c.Sender().ID)
				}
				userMsg = m.Translator(lang).T(i18n.KeyInternalError)
			}

			if c != nil && userMsg != "" {
				_ = c.Send(userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			userID := int64(0)
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}

			action := ""
			if c != nil {
				if cb := c.Callback(); cb != nil {
					action = cb.Data
				} else {
					action = c.Text()
				}
			}

			log.Info("handling update", slog.Int64("user_id", userID), slog.String("action", action))
			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// AuthMiddleware ensures every incoming update has a user record, seeding
// the interface language from the Telegram client locale on first contact.
func AuthMiddleware(store storage.Store, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if store == nil || c == nil || c.Sender() == nil {
				return next(c)
			}

			sender := c.Sender()
			if store.AddUser(sender.ID, sender.LanguageCode) {
				log.Info("registered new user",
					slog.Int64("user_id", sender.ID),
					slog.String("language_code", sender.LanguageCode),
				)
			}

			return next(c)
		}
	}
}
