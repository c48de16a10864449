package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/ratelimit"
)

// RateLimitMiddleware enforces per-user rate limits for incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter  ratelimit.Limiter
	rules    *ratelimit.Rules
	i18n     *i18n.Manager
	language func(userID int64) string
	log      *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component. The
// language callback resolves the user's interface language for the rejection
// message.
func NewRateLimitMiddleware(
	limiter ratelimit.Limiter,
	rules *ratelimit.Rules,
	manager *i18n.Manager,
	language func(userID int64) string,
	log *slog.Logger,
) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter:  limiter,
		rules:    rules,
		i18n:     manager,
		language: language,
		log:      log,
	}
}

// Handle returns a telebot middleware that enforces per-user rate limits.
// Limiter infrastructure failures fail open so a Redis outage cannot stop
// the bot.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return next(c)
		}

		userID := sender.ID
		if m.rules.IsWhitelisted(userID) {
			return next(c)
		}

		limit, window, err := m.rules.PerUserLimit()
		if err != nil {
			m.log.Error("failed to load per-user rate limit", slog.Int64("user_id", userID), slog.Any("error", err))
			return next(c)
		}

		key := fmt.Sprintf("user:%d", userID)
		result, err := m.limiter.Check(context.Background(), key, limit, window)
		if err != nil && !errors.Is(err, ratelimit.ErrLimitExceeded) {
			m.log.Warn("rate limiter error", slog.Int64("user_id", userID), slog.Any("error", err))
			return next(c)
		}

		if result != nil && !result.Allowed {
			m.log.Warn("rate limit exceeded", slog.Int64("user_id", userID))
			return c.Send(m.rejectionMessage(userID))
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) rejectionMessage(userID int64) string {
	if m.i18n == nil {
		return "Too many requests. Try again later."
	}

	lang := ""
	if m.language != nil {
		lang = m.language(userID)
	}

	return m.i18n.Translator(lang).T(i18n.KeyRateLimited)
}
