package artifact

import (
	"fmt"
	"sync"

	"sealpost/internal/sealpost"
)

// MemoryStore is an in-memory ArtifactStore, useful for testing. Safe for
// concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	ciphertexts map[string][]byte
	salts       map[string][]byte
}

// NewMemoryStore creates an empty in-memory artifact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ciphertexts: make(map[string][]byte),
		salts:       make(map[string][]byte),
	}
}

// Put stores a ciphertext and its salt under name.
func (s *MemoryStore) Put(name string, ciphertext, salt []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ciphertexts[name] = append([]byte(nil), ciphertext...)
	s.salts[name] = append([]byte(nil), salt...)
	return nil
}

// Ciphertext returns the stored ciphertext bytes for name.
func (s *MemoryStore) Ciphertext(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.ciphertexts[name]
	if !ok {
		return nil, fmt.Errorf("artifact: ciphertext not found: %s", name)
	}
	return append([]byte(nil), data...), nil
}

// Salt returns the salt paired with name's ciphertext.
func (s *MemoryStore) Salt(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.salts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sealpost.ErrMissingSalt, name)
	}
	return append([]byte(nil), data...), nil
}

// DeleteSalt removes a stored salt, simulating a lost salt artifact.
// Test helper.
func (s *MemoryStore) DeleteSalt(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.salts, name)
}

// Corrupt replaces a stored ciphertext, simulating post-encryption
// tampering. Test helper.
func (s *MemoryStore) Corrupt(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ciphertexts[name] = append([]byte(nil), data...)
}

// Compile-time check that MemoryStore implements the ArtifactStore interface.
var _ sealpost.ArtifactStore = (*MemoryStore)(nil)
