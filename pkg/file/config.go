package file

import (
	"context"
	"fmt"
)

// Backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

type Config struct {
	Backend  string `env:"FILE_STORAGE" envDefault:"local"`
	LocalDir string `env:"FILE_LOCAL_DIR" envDefault:"./data/images"`
	S3       S3Config
}

// NewFromConfig creates the configured backend.
func NewFromConfig(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalStorage(cfg.LocalDir)
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
}
