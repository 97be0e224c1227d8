package ledger

import (
	"fmt"

	"sealpost/internal/config"
)

// NewStoreFromConfig creates a ledger Store implementation based on the ledger config type.
func NewStoreFromConfig(cfg config.LedgerConfig) (Store, error) {
	switch cfg.Type {
	case "bolt", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("bolt ledger store requires path to be set")
		}
		return OpenBoltStore(cfg.Path)
	case "memory":
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown ledger store type: %s", cfg.Type)
	}
}
