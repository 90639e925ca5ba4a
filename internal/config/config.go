// Package config reads the service settings from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevSessionSecret is used when SESSION_SECRET is empty.
const DevSessionSecret = "dev_fallback_secret"

// Config is the runtime configuration.
type Config struct {
	DBDSN           string
	Port            string
	SessionSecret   string
	SessionMaxAge   time.Duration
	UploadDir       string
	GinMode         string
	CartDedupWindow time.Duration
	LogLevel        slog.Level
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }

// UsesDevSecret reports whether the fallback session secret is in use.
func (c Config) UsesDevSecret() bool { return c.SessionSecret == DevSessionSecret }

// LoadEnvFiles loads .env from the working directory and up to two parents,
// so the binaries work when started from cmd/<name>. Missing files are fine.
func LoadEnvFiles(extra ...string) {
	files := append([]string{".env", "../.env", "../../.env"}, extra...)
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Overload(f)
		}
	}
}

// Load reads .env files and then the environment.
func Load() (Config, error) {
	LoadEnvFiles()
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Port:          getenv("APP_PORT", "8080"),
		SessionSecret: getenv("SESSION_SECRET", DevSessionSecret),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		GinMode:       getenv("GIN_MODE", "debug"),
	}
	if cfg.DBDSN == "" {
		return cfg, errors.New("DB_DSN is empty (check your .env)")
	}

	var err error
	if cfg.CartDedupWindow, err = duration("CART_DEDUP_WINDOW", time.Second); err != nil {
		return cfg, err
	}
	if cfg.SessionMaxAge, err = duration("SESSION_MAX_AGE", 30*24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.LogLevel, err = ParseLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger returns the process logger.
func (c Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
