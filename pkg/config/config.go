package config

import (
	"time"

	"github.com/bookworm-labs/bookworm-bot/pkg/logger"
)

// Config holds runtime configuration for the Bookworm bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog" validate:"required"`
	Translate TranslateConfig `mapstructure:"translate" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Log       logger.Config   `mapstructure:"log"`
}

// BotConfig configures the Telegram transport.
type BotConfig struct {
	Token       string        `mapstructure:"token" validate:"required"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	// AdminIDs are allowed to use the admin panel. Also implicitly
	// whitelisted for rate limiting.
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

// ServerConfig configures the HTTP sidecar serving health and metrics.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig configures the JSON-file store and its scheduled backups.
type StorageConfig struct {
	DataFile       string        `mapstructure:"data_file" validate:"required"`
	BackupInterval time.Duration `mapstructure:"backup_interval"`
}

// CatalogConfig configures the external book catalog client.
type CatalogConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results" validate:"gte=1,lte=40"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// TranslateConfig configures the description translation client.
type TranslateConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the optional Redis backend for sessions, rate
// limiting, and idempotency. Disabled means in-memory fallbacks everywhere.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RateLimitRule is a single limit over a window, e.g. 20 per "1m".
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

// RateLimitConfig configures interaction throttling.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	PerUser         RateLimitRule `mapstructure:"per_user"`
	Global          RateLimitRule `mapstructure:"global"`
	Whitelist       []int64       `mapstructure:"whitelist"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// I18nConfig configures locale bundle loading.
type I18nConfig struct {
	Dir             string `mapstructure:"dir"`
	DefaultLanguage string `mapstructure:"default_language"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}
