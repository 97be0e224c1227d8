package artifact

import (
	"context"
	"fmt"

	"sealpost/internal/config"
	"sealpost/internal/sealpost"
)

// NewStoreFromConfig creates an ArtifactStore implementation based on the artifacts config type.
func NewStoreFromConfig(cfg config.ArtifactsConfig) (sealpost.ArtifactStore, error) {
	switch cfg.Type {
	case "filesystem", "":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem artifact store requires root to be set")
		}
		return NewFileSystemStore(cfg.Root)
	case "memory":
		return NewMemoryStore(), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 artifact store requires s3_bucket to be set")
		}
		return NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
	default:
		return nil, fmt.Errorf("unknown artifact store type: %s", cfg.Type)
	}
}
