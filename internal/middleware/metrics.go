package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/handlers"
	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		action := extractActionName(c)
		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(action, status, time.Since(start))

		return err
	}
}

// extractActionName maps an update to a bounded metric label: the callback
// action prefix, the command word, or a generic text bucket. Raw payloads and
// free-form text would explode label cardinality.
func extractActionName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		action, _, err := keyboard.DecodeCallback(strings.TrimSpace(cb.Data))
		if err != nil {
			return "callback"
		}
		return "callback:" + action
	}

	if text := strings.TrimSpace(c.Text()); text != "" {
		if strings.HasPrefix(text, "/") {
			return strings.Fields(text)[0]
		}
		return "text"
	}

	return "unknown"
}
