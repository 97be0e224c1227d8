package sealpost

// ArtifactStore persists encrypted file artifacts. Every ciphertext is
// stored together with its salt under a derivable naming relationship so
// decryption can always locate the correct salt given the ciphertext name.
type ArtifactStore interface {
	// Put stores a ciphertext and its salt under the given name.
	Put(name string, ciphertext, salt []byte) error

	// Ciphertext returns the stored ciphertext bytes for name.
	Ciphertext(name string) ([]byte, error)

	// Salt returns the salt paired with name's ciphertext. Returns an error
	// wrapping ErrMissingSalt when the ciphertext exists but its salt
	// artifact is absent.
	Salt(name string) ([]byte, error)
}
