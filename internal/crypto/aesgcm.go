// Package crypto implements password-based file encryption engines.
//
// The default engine derives a per-file AES-256 key from the password and a
// fresh random salt via PBKDF2, then seals the plaintext with AES-GCM. The
// salt is returned separately so it can be persisted alongside the
// ciphertext; both are required to decrypt.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"sealpost/internal/sealpost"
)

const (
	// PBKDF2Iterations is deliberately high: key derivation must be slow to
	// resist brute-force password guessing.
	PBKDF2Iterations = 200_000

	// KeySize is 32 bytes for AES-256.
	KeySize = 32

	// SaltSize is the length of the random per-file salt.
	SaltSize = 16

	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
)

// AESGCMCipher is the default FileCipher: PBKDF2 key derivation plus
// AES-256-GCM authenticated encryption.
//
// Ciphertext layout: nonce(12B) || AES-GCM(key, nonce, plaintext).
type AESGCMCipher struct{}

var _ sealpost.FileCipher = (*AESGCMCipher)(nil)

// NewAESGCMCipher creates the default engine.
func NewAESGCMCipher() *AESGCMCipher {
	return &AESGCMCipher{}
}

// DeriveKey derives the AES key from a password and salt. The same
// (password, salt) pair always yields the same key; different salts yield
// different keys for the same password.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeySize, sha256.New)
}

// Encrypt seals plaintext under password with a fresh random salt. The
// returned key material is the derived AES key; the password itself is not
// retained.
func (c *AESGCMCipher) Encrypt(plaintext []byte, password string) (*sealpost.SealedFile, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: generating salt: %w", err)
	}

	key := DeriveKey(password, salt)
	ciphertext, err := sealWithKey(plaintext, key)
	if err != nil {
		return nil, err
	}

	return &sealpost.SealedFile{
		Ciphertext:  ciphertext,
		Salt:        salt,
		KeyMaterial: key,
	}, nil
}

// Decrypt re-derives the key from password and salt and opens the
// ciphertext. A wrong password or tampered ciphertext fails GCM
// authentication and is reported as ErrDecryptionFailed; garbage is never
// returned as valid plaintext.
func (c *AESGCMCipher) Decrypt(ciphertext, salt []byte, password string) ([]byte, error) {
	if len(salt) == 0 {
		return nil, sealpost.ErrMissingSalt
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", sealpost.ErrDecryptionFailed, SaltSize, len(salt))
	}
	return c.Open(ciphertext, DeriveKey(password, salt))
}

// Open decrypts with a previously derived key.
func (c *AESGCMCipher) Open(ciphertext, keyMaterial []byte) ([]byte, error) {
	if len(keyMaterial) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", sealpost.ErrDecryptionFailed, KeySize, len(keyMaterial))
	}
	if len(ciphertext) < NonceSize {
		return nil, fmt.Errorf("%w: ciphertext truncated", sealpost.ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sealpost.ErrDecryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sealpost.ErrDecryptionFailed, err)
	}

	nonce := ciphertext[:NonceSize]
	plaintext, err := gcm.Open(nil, nonce, ciphertext[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", sealpost.ErrDecryptionFailed)
	}
	return plaintext, nil
}

// Hash returns the hex SHA-256 digest of data.
func (c *AESGCMCipher) Hash(data []byte) string { return SumHex(data) }

// sealWithKey encrypts plaintext with AES-256-GCM under key, prefixing the
// random nonce.
func sealWithKey(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: generating nonce: %w", err)
	}

	out := make([]byte, 0, len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}
