// Package blob stores uploaded images and returns the URL they are served from.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/gravadigital/convite-api/internal/config"
)

// Store persists objects by key
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Key builds a unique, URL-safe object key under prefix from an upload name
func Key(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	return path.Join(prefix, fmt.Sprintf("%s-%s%s", uuid.NewString()[:8], base, ext))
}

// New builds the store selected by BLOB_DRIVER
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Blob.Driver {
	case "minio":
		return NewMinIO(cfg.Blob.Endpoint, cfg.Blob.AccessKey, cfg.Blob.SecretKey, cfg.Blob.Bucket, cfg.Blob.Region, cfg.Blob.UseSSL, cfg.Blob.PublicBaseURL)
	case "s3":
		return NewS3(ctx, cfg.Blob.Endpoint, cfg.Blob.AccessKey, cfg.Blob.SecretKey, cfg.Blob.Bucket, cfg.Blob.Region, cfg.Blob.PublicBaseURL)
	case "inline", "":
		return NewInline(), nil
	default:
		return nil, fmt.Errorf("unsupported blob driver: %s", cfg.Blob.Driver)
	}
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
