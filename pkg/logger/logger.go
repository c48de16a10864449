// Package logger configures the application slog logger: level and format,
// file rotation, sensitive-field masking, and optional Sentry fan-out.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// New builds the application logger. When cfg.File is set, output is written
// both to stdout and to a size-rotated log file. When sentryEnabled is true,
// error-level records are additionally forwarded to Sentry.
func New(cfg Config, sentryEnabled bool) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 50),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotated)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var base slog.Handler
	if cfg.Format == "json" {
		base = slog.NewJSONHandler(out, opts)
	} else {
		base = slog.NewTextHandler(out, opts)
	}

	handlers := []slog.Handler{NewMaskingHandler(base)}
	if sentryEnabled {
		handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}

	return slog.New(fanoutHandler{handlers: handlers})
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func orDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// fanoutHandler delivers every record to all wrapped handlers.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return fanoutHandler{handlers: next}
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return fanoutHandler{handlers: next}
}
