package sealpost

// SealedFile is the output of encrypting a plaintext under a password.
// The salt must be persisted alongside the ciphertext: both are required,
// together with the password, to decrypt.
type SealedFile struct {
	Ciphertext []byte

	// Salt is the fresh random per-file salt mixed into key derivation.
	Salt []byte

	// KeyMaterial is engine-opaque material sufficient to decrypt this
	// ciphertext via Open without the original password. It is a secret:
	// callers must keep it out of stores and logs, and should zero it once
	// the pending delivery is resolved.
	KeyMaterial []byte
}

// FileCipher performs password-based authenticated encryption of file
// contents. Implementations derive a fresh key per file from the password
// and a random salt using a deliberately slow KDF.
type FileCipher interface {
	// Encrypt seals plaintext under password with a fresh random salt.
	Encrypt(plaintext []byte, password string) (*SealedFile, error)

	// Decrypt opens ciphertext using the password and the salt that was
	// produced at encryption time. Returns ErrDecryptionFailed on a wrong
	// password or corrupted ciphertext, and ErrMissingSalt when salt is
	// empty.
	Decrypt(ciphertext, salt []byte, password string) ([]byte, error)

	// Open decrypts using previously captured key material instead of the
	// password. Used by the scheduler at fire time.
	Open(ciphertext, keyMaterial []byte) ([]byte, error)

	// Hash returns the stable hex content digest of data, used for ledger
	// commitments and integrity checks independent of password knowledge.
	Hash(data []byte) string
}
