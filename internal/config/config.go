// Package config reads service settings from the environment. Call
// godotenv.Load before Load to pick up a local .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	DBDSN    string
	Currency string

	SessionDriver string
	SessionTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SKUPrefix  string
	AdminToken string

	// StagingDir holds uploaded images until the matrix is submitted.
	StagingDir     string
	MaxUploadBytes int64
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		DBDSN:         os.Getenv("DB_DSN"),
		Currency:      strings.ToUpper(envOr("CURRENCY", "EUR")),
		SessionDriver: envOr("SESSION_DRIVER", "memory"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SKUPrefix:     os.Getenv("SKU_PREFIX"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		StagingDir:    envOr("UPLOAD_STAGING_DIR", filepath.Join(os.TempDir(), "catalog-staging")),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(envOr("SESSION_TTL", "2h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(envOr("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	mb, err := strconv.Atoi(envOr("MAX_UPLOAD_MB", "8"))
	if err != nil || mb <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}
	cfg.MaxUploadBytes = int64(mb) << 20

	if len(cfg.Currency) != 3 {
		return Config{}, fmt.Errorf("CURRENCY must be a 3-letter code, got %q", cfg.Currency)
	}
	switch cfg.SessionDriver {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("SESSION_DRIVER=redis requires REDIS_ADDR")
		}
	default:
		return Config{}, fmt.Errorf("unknown SESSION_DRIVER: %s", cfg.SessionDriver)
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
