// Package bot wires the Telegram transport, router, and handlers together.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/bookworm-labs/bookworm-bot/internal/bot/handlers"
	"github.com/bookworm-labs/bookworm-bot/internal/bot/keyboard"
	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
	errors "github.com/bookworm-labs/bookworm-bot/internal/errors"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/idempotency"
	"github.com/bookworm-labs/bookworm-bot/internal/middleware"
	"github.com/bookworm-labs/bookworm-bot/internal/session"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
	"github.com/bookworm-labs/bookworm-bot/internal/translate"
	"github.com/bookworm-labs/bookworm-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot            *telebot.Bot
	log                *slog.Logger
	cfg                config.Config
	machine            session.Machine
	store              storage.Store
	gateway            *catalog.Gateway
	translator         *translate.Service
	i18n               *i18n.Manager
	rateLimitMw        *middleware.RateLimitMiddleware
	router             *Router
	dispatcher         *Dispatcher
	errHandler         *errors.Handler
	idempotencyManager idempotency.Manager
}

// New builds a telegram bot instance configured according to the application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	store storage.Store,
	machine session.Machine,
	gateway *catalog.Gateway,
	translator *translate.Service,
	i18nManager *i18n.Manager,
	idempotencyManager idempotency.Manager,
	rateLimitMw *middleware.RateLimitMiddleware,
) (*Bot, error) {
	pollTimeout := cfg.Bot.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}

	settings := telebot.Settings{
		Token:  cfg.Bot.Token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	dispatcher := NewDispatcher(machine, log)
	router := NewRouter(dispatcher, log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:            tb,
		log:                log,
		cfg:                cfg,
		machine:            machine,
		store:              store,
		gateway:            gateway,
		translator:         translator,
		i18n:               i18nManager,
		rateLimitMw:        rateLimitMw,
		router:             router,
		dispatcher:         dispatcher,
		errHandler:         errHandler,
		idempotencyManager: idempotencyManager,
	}

	b.setupRouter()

	if b.rateLimitMw != nil {
		b.telebot.Use(b.rateLimitMw.Handle)
	}

	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter() {
	if b.router == nil {
		return
	}

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(middleware.Idempotency(b.idempotencyManager, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler, b.store, b.i18n))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(AuthMiddleware(b.store, b.log))
	b.router.Use(middleware.Metrics)

	guard := handlers.NewAdminGuard(b.cfg.Bot.AdminIDs)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(b.machine, b.store, b.i18n, b.log))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(b.store, b.i18n))
	b.router.RegisterCommand(CommandFavorites, handlers.NewFavoritesHandler(b.store, b.i18n, b.log))
	b.router.RegisterCommand(CommandLanguage, handlers.NewLanguageHandler(b.store, b.i18n))
	b.router.RegisterCommand(CommandAdmin, handlers.NewAdminHandler(guard, b.store, b.i18n, b.log))

	b.router.RegisterCallback(keyboard.ActionGenre, handlers.HandleGenreSelection(b.gateway, b.machine, b.store, b.i18n, b.log))
	b.router.RegisterCallback(keyboard.ActionFavorites, handlers.HandleFavoritesCallback(b.store, b.i18n, b.log))
	b.router.RegisterCallback(keyboard.ActionLanguage, handlers.HandleLanguageSelection(b.store, b.i18n, b.log))
	b.router.RegisterCallback(keyboard.ActionAdmin, handlers.HandleAdminAction(guard, b.store, b.i18n, b.log))

	b.dispatcher.RegisterStateHandler(
		session.StateBrowsing,
		handlers.NewBrowsingHandler(b.machine, b.store, b.translator, b.i18n, b.log),
	)

	b.router.SetDefault(handlers.NewUnknownHandler(b.store, b.i18n))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
