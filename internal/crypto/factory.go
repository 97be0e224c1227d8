package crypto

import (
	"fmt"

	"sealpost/internal/config"
	"sealpost/internal/sealpost"
)

// NewCipherFromConfig creates a FileCipher based on the encryption config type.
func NewCipherFromConfig(cfg config.EncryptionConfig) (sealpost.FileCipher, error) {
	switch cfg.Type {
	case "aes-gcm", "":
		return NewAESGCMCipher(), nil
	case "age":
		return NewAgeCipher(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
