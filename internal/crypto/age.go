package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"filippo.io/age"

	"sealpost/internal/sealpost"
)

// AgeCipher is an alternative FileCipher built on age's scrypt passphrase
// encryption. The per-file salt is bound into the effective passphrase, so
// the pairing invariant holds: a ciphertext cannot be opened without both
// the password and its salt artifact.
//
// Unlike the AES-GCM engine, the key material retained for a pending
// delivery is the salt-bound passphrase itself: age performs its scrypt
// derivation at decrypt time and cannot accept a pre-derived key.
type AgeCipher struct{}

var _ sealpost.FileCipher = (*AgeCipher)(nil)

// NewAgeCipher creates the age-based engine.
func NewAgeCipher() *AgeCipher {
	return &AgeCipher{}
}

// boundPassphrase binds the per-file salt into the passphrase handed to age.
func boundPassphrase(password string, salt []byte) string {
	return password + ":" + hex.EncodeToString(salt)
}

// Encrypt seals plaintext under the salt-bound passphrase.
func (c *AgeCipher) Encrypt(plaintext []byte, password string) (*sealpost.SealedFile, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: generating salt: %w", err)
	}

	passphrase := boundPassphrase(password, salt)
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("crypto: creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("crypto: encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("crypto: finalizing encryption: %w", err)
	}

	return &sealpost.SealedFile{
		Ciphertext:  buf.Bytes(),
		Salt:        salt,
		KeyMaterial: []byte(passphrase),
	}, nil
}

// Decrypt rebuilds the salt-bound passphrase and opens the ciphertext.
func (c *AgeCipher) Decrypt(ciphertext, salt []byte, password string) ([]byte, error) {
	if len(salt) == 0 {
		return nil, sealpost.ErrMissingSalt
	}
	return c.Open(ciphertext, []byte(boundPassphrase(password, salt)))
}

// Hash returns the hex SHA-256 digest of data.
func (c *AgeCipher) Hash(data []byte) string { return SumHex(data) }

// Open decrypts with the salt-bound passphrase captured at encryption time.
func (c *AgeCipher) Open(ciphertext, keyMaterial []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(string(keyMaterial))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sealpost.ErrDecryptionFailed, err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sealpost.ErrDecryptionFailed, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sealpost.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
