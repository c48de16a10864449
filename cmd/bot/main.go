package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookworm-labs/bookworm-bot/internal/bot"
	"github.com/bookworm-labs/bookworm-bot/internal/catalog"
	"github.com/bookworm-labs/bookworm-bot/internal/health"
	"github.com/bookworm-labs/bookworm-bot/internal/i18n"
	"github.com/bookworm-labs/bookworm-bot/internal/idempotency"
	"github.com/bookworm-labs/bookworm-bot/internal/jobs"
	"github.com/bookworm-labs/bookworm-bot/internal/lifecycle"
	"github.com/bookworm-labs/bookworm-bot/internal/middleware"
	"github.com/bookworm-labs/bookworm-bot/internal/ratelimit"
	"github.com/bookworm-labs/bookworm-bot/internal/session"
	"github.com/bookworm-labs/bookworm-bot/internal/storage"
	"github.com/bookworm-labs/bookworm-bot/internal/translate"
	"github.com/bookworm-labs/bookworm-bot/pkg/config"
	"github.com/bookworm-labs/bookworm-bot/pkg/graceful"
	"github.com/bookworm-labs/bookworm-bot/pkg/logger"
	"github.com/bookworm-labs/bookworm-bot/pkg/metrics"
	redispkg "github.com/bookworm-labs/bookworm-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			slog.Error("failed to initialize sentry", slog.Any("error", err))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log := logger.New(cfg.Log, cfg.Sentry.Enabled)
	slog.SetDefault(log)

	log.Info("starting bookworm bot", slog.String("env", cfg.AppEnv))

	config.Watch(v, log, func(fresh *config.Config) {
		// Components snapshot their settings at startup; a reload only
		// takes full effect after a restart.
		log.Info("configuration reloaded", slog.String("env", fresh.AppEnv))
	})

	redisClient, err := redispkg.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}

	store := storage.NewJSONStore(cfg.Storage.DataFile, log)

	var sessionStorage session.Storage
	if redisClient != nil {
		sessionStorage = session.NewRedisStorage(redisClient, log)
	} else {
		sessionStorage = session.NewMemoryStorage()
	}
	machine := session.NewMachine(sessionStorage, log, redisClient)

	i18nDir := cfg.I18n.Dir
	var i18nManager *i18n.Manager
	if i18nDir != "" {
		i18nManager, err = i18n.LoadFromDir(i18nDir, cfg.I18n.DefaultLanguage)
	} else {
		i18nManager, err = i18n.Load(cfg.I18n.DefaultLanguage)
	}
	if err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		os.Exit(1)
	}

	requiredKeys := append(append([]string(nil), i18n.RequiredKeys...), catalog.LabelKeys()...)
	if err := i18nManager.Validate(requiredKeys); err != nil {
		log.Error("translation bundles are incomplete", slog.Any("error", err))
		os.Exit(1)
	}

	gateway := catalog.NewGateway(catalog.NewClient(cfg.Catalog, log), store, log)
	translator := translate.NewService(translate.NewClient(cfg.Translate), log)

	var rateLimitMw *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		rlCfg := cfg.RateLimit
		rlCfg.Whitelist = append(append([]int64(nil), rlCfg.Whitelist...), cfg.Bot.AdminIDs...)
		rules := ratelimit.NewRules(rlCfg)

		var limiter ratelimit.Limiter
		memoryLimiter := ratelimit.NewMemoryLimiter(log)
		if redisClient != nil {
			limiter = ratelimit.NewAdaptiveLimiter(ratelimit.NewRedisLimiter(redisClient, log), memoryLimiter, log)
		} else {
			limiter = memoryLimiter
		}

		rateLimitMw = middleware.NewRateLimitMiddleware(limiter, rules, i18nManager, store.UserLanguage, log)

		cleanupInterval := cfg.RateLimit.CleanupInterval
		if cleanupInterval <= 0 {
			cleanupInterval = time.Minute
		}
		go ratelimit.NewCleaner(redisClient, memoryLimiter, log, cleanupInterval).Run(ctx)
	}

	var idemStore idempotency.Store
	var idemMemory *idempotency.MemoryStore
	if redisClient != nil {
		idemStore = idempotency.NewRedisStore(redisClient, log)
	} else {
		idemMemory = idempotency.NewMemoryStore(log)
		idemStore = idemMemory
	}
	idemManager := idempotency.NewManager(idemStore, log)
	go idempotency.NewCleaner(redisClient, idemMemory, log, time.Hour).Run(ctx)

	b, err := bot.New(*cfg, log, store, machine, gateway, translator, i18nManager, idemManager, rateLimitMw)
	if err != nil {
		log.Error("failed to initialize bot", slog.Any("error", err))
		os.Exit(1)
	}

	checker := health.NewChecker(log)
	checker.AddCheck("store", store)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	go metrics.NewSessionCollector(machine).Run(ctx)

	backups := jobs.NewBackupScheduler(store, cfg.Storage.BackupInterval, log)
	if err := backups.Start(); err != nil {
		log.Error("failed to start backup scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	srv := newHTTPServer(cfg.Server, log, checker)
	go func() {
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped with error", slog.Any("error", err))
		}
	}()

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram-bot", func(context.Context) error {
		b.Stop()
		return nil
	})
	shutdown.Register("backup-scheduler", func(context.Context) error {
		backups.Stop()
		return nil
	})
	shutdown.Register("final-backup", func(context.Context) error {
		return store.CreateBackup()
	})
	if redisClient != nil {
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}

	go b.Start()
	log.Info("bookworm bot is running")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("bookworm bot stopped")
}

func newHTTPServer(cfg config.ServerConfig, log *slog.Logger, checker *health.Checker) *graceful.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		results := checker.Check(r.Context())

		status := http.StatusOK
		for _, result := range results {
			if result != "OK" {
				status = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(results)
	})

	port := cfg.Port
	if port == "" {
		port = ":8080"
	}

	httpServer := &http.Server{
		Addr:    port,
		Handler: logger.Middleware(mux),
	}

	return graceful.NewServer(log, httpServer, cfg.ShutdownTimeout)
}
