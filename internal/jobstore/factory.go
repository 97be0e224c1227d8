package jobstore

import (
	"fmt"
	"os"
	"path/filepath"

	"sealpost/internal/config"
	"sealpost/internal/sealpost"
)

// NewStoreFromConfig creates a JobStore implementation based on the jobs config type.
func NewStoreFromConfig(cfg config.JobsConfig) (sealpost.JobStore, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite job store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating job store directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "jobs.db"))
	default:
		return nil, fmt.Errorf("unknown job store type: %s", cfg.Type)
	}
}
