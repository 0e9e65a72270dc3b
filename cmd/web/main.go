package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"pehlione.com/catalog/internal/config"
	apphttp "pehlione.com/catalog/internal/http"
	"pehlione.com/catalog/internal/modules/products"
	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/sessions"
	"pehlione.com/catalog/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	store, err := storage.FromEnv(ctx)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage_ready", slog.String("driver", store.Driver))

	var rdb *redis.Client
	if cfg.SessionDriver == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
	}
	sess, err := sessions.New(sessions.Options{Driver: cfg.SessionDriver, TTL: cfg.SessionTTL, Redis: rdb})
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}

	deps := apphttp.Deps{
		Sessions:     sess,
		SKUs:         variants.SKUGenerator{Prefix: cfg.SKUPrefix},
		StagingDir:   cfg.StagingDir,
		AdminToken:   cfg.AdminToken,
		MaxBodyBytes: cfg.MaxUploadBytes,
	}
	if l, ok := store.Storage.(*storage.Local); ok {
		deps.UploadDir, deps.UploadURLPrefix = l.BaseDir, l.URLPrefix
	}

	// Without DB_DSN the editor still works, but cannot load or submit products.
	if cfg.DBDSN != "" {
		db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		deps.Catalog = products.NewService(products.NewGormRepo(db), store.Storage, cfg.Currency, logger)
	} else {
		logger.Warn("catalog_disabled", slog.String("reason", "DB_DSN not set"))
	}

	r := apphttp.NewRouter(logger, deps)
	logger.Info("listening", slog.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
