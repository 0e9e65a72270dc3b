package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DSN", "CURRENCY", "SESSION_DRIVER", "SESSION_TTL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SKU_PREFIX", "ADMIN_TOKEN", "UPLOAD_STAGING_DIR", "MAX_UPLOAD_MB"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Currency != "EUR" || cfg.SessionDriver != "memory" ||
		cfg.SessionTTL != 2*time.Hour || cfg.MaxUploadBytes != 8<<20 || cfg.StagingDir == "" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CURRENCY", "try")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("SKU_PREFIX", "pl")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Currency != "TRY" || cfg.RedisDB != 3 || cfg.SessionTTL != 15*time.Minute || cfg.SKUPrefix != "pl" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"bad ttl":        {"SESSION_TTL": "soon"},
		"bad redis db":   {"REDIS_DB": "x"},
		"redis no addr":  {"SESSION_DRIVER": "redis"},
		"unknown driver": {"SESSION_DRIVER": "disk"},
		"bad currency":   {"CURRENCY": "EURO"},
		"bad upload":     {"MAX_UPLOAD_MB": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
