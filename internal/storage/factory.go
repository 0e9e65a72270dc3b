package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
}

var ErrUnknownDriver = errors.New("unknown STORAGE_DRIVER")

// FromEnv picks the image store named by STORAGE_DRIVER (local by default).
func FromEnv(ctx context.Context) (FactoryResult, error) {
	driver := envOr("STORAGE_DRIVER", "local")

	switch driver {
	case "local":
		baseDir := envOr("LOCAL_UPLOAD_DIR", "./storage/uploads")
		urlPrefix := envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads")
		return FactoryResult{Driver: driver, Storage: NewLocal(baseDir, urlPrefix)}, nil

	case "s3":
		cfg := S3Config{
			Region:        os.Getenv("S3_REGION"),
			Bucket:        os.Getenv("S3_BUCKET"),
			Prefix:        envOr("S3_PREFIX", "variants"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
		}
		if cfg.Region == "" || cfg.Bucket == "" || cfg.PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: driver, Storage: s}, nil

	case "minio":
		useSSL, _ := strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))
		cfg := MinIOConfig{
			Endpoint:      os.Getenv("MINIO_ENDPOINT"),
			AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:        useSSL,
			Bucket:        os.Getenv("MINIO_BUCKET"),
			Prefix:        envOr("MINIO_PREFIX", "variants"),
			PublicBaseURL: os.Getenv("MINIO_PUBLIC_BASE_URL"),
		}
		if cfg.Endpoint == "" || cfg.Bucket == "" {
			return FactoryResult{}, fmt.Errorf("MinIO config missing: MINIO_ENDPOINT, MINIO_BUCKET required")
		}
		m, err := NewMinIO(cfg)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: driver, Storage: m}, nil

	default:
		return FactoryResult{}, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
