// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from the per-environment YAML file and
// environment variables, validates it, and returns the resulting Config
// along with the viper instance for change watching.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// missing env files are fine, real deployments use the environment
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, v, nil
}

// Watch re-reads and re-validates the config file on every filesystem change
// and hands the fresh Config to onChange. Invalid edits are logged and
// skipped so a typo cannot take the running bot down.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	v.OnConfigChange(func(event fsnotify.Event) {
		log.Info("config file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))

		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Error("failed to unmarshal changed config, keeping previous", slog.Any("error", err))
			return
		}

		if err := validate.Struct(cfg); err != nil {
			log.Error("changed config failed validation, keeping previous", slog.Any("error", err))
			return
		}

		onChange(&cfg)
	})
	v.WatchConfig()
}
