// Package artifact provides ArtifactStore implementations for encrypted
// file artifacts. Every ciphertext is paired with a salt stored under the
// same name plus a ".salt" suffix, so the salt is always locatable from the
// ciphertext reference alone.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"sealpost/internal/sealpost"
)

// SaltSuffix is appended to an artifact name to derive its salt file name.
const SaltSuffix = ".salt"

// FileSystemStore stores artifacts as files under a root directory:
//
//	<root>/
//	  <name>        (ciphertext bytes)
//	  <name>.salt   (paired salt)
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a filesystem store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("artifact: failed to create root directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Put stores a ciphertext and its salt. The salt is written first so a
// ciphertext is never observable without its salt.
func (s *FileSystemStore) Put(name string, ciphertext, salt []byte) error {
	if err := s.writeFile(name+SaltSuffix, salt); err != nil {
		return err
	}
	return s.writeFile(name, ciphertext)
}

// Ciphertext returns the stored ciphertext bytes for name.
func (s *FileSystemStore) Ciphertext(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact: ciphertext not found: %s", name)
		}
		return nil, fmt.Errorf("artifact: reading ciphertext: %w", err)
	}
	return data, nil
}

// Salt returns the salt paired with name's ciphertext.
func (s *FileSystemStore) Salt(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name+SaltSuffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sealpost.ErrMissingSalt, name)
		}
		return nil, fmt.Errorf("artifact: reading salt: %w", err)
	}
	return data, nil
}

// writeFile writes data to the named file using atomic write (temp file + rename).
func (s *FileSystemStore) writeFile(name string, data []byte) error {
	destPath := filepath.Join(s.root, name)

	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("artifact: failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("artifact: failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("artifact: failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("artifact: failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements the ArtifactStore interface.
var _ sealpost.ArtifactStore = (*FileSystemStore)(nil)
