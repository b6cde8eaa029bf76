package storage

import (
	"context"

	"github.com/zatekoja/strokescreening/internal/domain/providers"
	"github.com/zatekoja/strokescreening/pkg/config"
)

// NewMediaStore selects the staging backend from configuration
func NewMediaStore(ctx context.Context, cfg config.MediaConfig) (providers.MediaStore, error) {
	if cfg.Backend == "minio" {
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	}
	return NewLocalStore(cfg.LocalDir)
}
