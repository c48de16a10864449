package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
	"github.com/bookworm-labs/bookworm-bot/pkg/metrics"
)

// AdminGuard answers whether a user may use the admin panel.
type AdminGuard struct {
	ids map[int64]struct{}
}

// NewAdminGuard builds the guard from the configured admin list.
func NewAdminGuard(adminIDs []int64) *AdminGuard {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}

	return &AdminGuard{ids: ids}
}

// Allowed reports whether the user is an admin.
func (g *AdminGuard) Allowed(userID int64) bool {
	_, ok := g.ids[userID]
	return ok
}

// NewAdminHandler opens the admin panel. Requests from non-admins are
// dropped without any reply so the panel stays invisible to regular users.
func NewAdminHandler(guard *AdminGuard, store storage.Store, m *i18n.Manager, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		userID := c.Sender().ID
		if !guard.Allowed(userID) {
			log.Warn("admin command from non-admin", slog.Int64("user_id", userID))
			return nil
		}

		t := translatorFor(m, store, c)

		return c.Send(t.T(i18n.KeyAdminPanel), keyboard.AdminMenu(t))
	}
}

// HandleAdminAction executes admin panel buttons, editing the panel message
// in place.
func HandleAdminAction(guard *AdminGuard, store storage.Store, m *i18n.Manager, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			return nil
		}

		userID := c.Sender().ID
		if !guard.Allowed(userID) {
			log.Warn("admin callback from non-admin", slog.Int64("user_id", userID))
			return respondCallback(c, "", false)
		}

		t := translatorFor(m, store, c)

		_, action, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil {
			return respondCallback(c, t.T(i18n.KeyInternalError), true)
		}

		if err := respondCallback(c, "", false); err != nil {
			log.Debug("failed to ack admin callback", slog.Any("error", err))
		}

		switch action {
		case keyboard.AdminActionStats:
			stats := store.Stats()
			message := t.T(i18n.KeyAdminStats) + "\n" +
				t.Tf(i18n.KeyAdminTotalUsers, stats.TotalUsers) + "\n" +
				t.Tf(i18n.KeyAdminTotalFavorites, stats.TotalFavorites)
			return c.Edit(message, keyboard.AdminBackMenu(t))

		case keyboard.AdminActionBackup:
			if err := store.CreateBackup(); err != nil {
				metrics.RecordBackup("error")
				log.Error("manual backup failed", slog.Int64("user_id", userID), slog.Any("error", err))
				return c.Edit(t.T(i18n.KeyAdminBackupFailed), keyboard.AdminBackMenu(t))
			}
			metrics.RecordBackup("ok")
			return c.Edit(t.T(i18n.KeyAdminBackupCreated), keyboard.AdminBackMenu(t))

		case keyboard.AdminActionClearCache:
			if !store.ClearCache() {
				return c.Edit(t.T(i18n.KeyAdminCacheClearFailed), keyboard.AdminBackMenu(t))
			}
			return c.Edit(t.T(i18n.KeyAdminCacheCleared), keyboard.AdminBackMenu(t))

		case keyboard.AdminActionBack:
			return c.Edit(t.T(i18n.KeyAdminPanel), keyboard.AdminMenu(t))
		}

		log.Warn("unknown admin action", slog.String("action", action))

		return nil
	}
}
