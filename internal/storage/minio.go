package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

type MinIO struct {
	Client        *minio.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewMinIO(cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinIO{
		Client:        client,
		Bucket:        cfg.Bucket,
		Prefix:        cfg.Prefix,
		PublicBaseURL: base,
	}, nil
}

func (m *MinIO) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key := newKey(m.Prefix, in.Filename)

	size := in.Size
	if size <= 0 {
		size = -1
	}
	_, err := m.Client.PutObject(ctx, m.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("minio put %s: %w", key, err)
	}

	return PutResult{Key: key, URL: m.PublicBaseURL + "/" + key}, nil
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIO) String() string { return fmt.Sprintf("minio(%s/%s)", m.Bucket, m.Prefix) }
