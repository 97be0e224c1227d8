package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sealpost/internal/sealpost"
)

func TestFileSystemStore_putAndGet(t *testing.T) {
	s, err := NewFileSystemStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	ciphertext := []byte{0x01, 0x02, 0x03}
	salt := []byte{0xaa, 0xbb}

	if err := s.Put("job-1.txt.enc", ciphertext, salt); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	gotCT, err := s.Ciphertext("job-1.txt.enc")
	if err != nil {
		t.Fatalf("Ciphertext() error = %v", err)
	}
	if !bytes.Equal(gotCT, ciphertext) {
		t.Errorf("Ciphertext() = %v, want %v", gotCT, ciphertext)
	}

	gotSalt, err := s.Salt("job-1.txt.enc")
	if err != nil {
		t.Fatalf("Salt() error = %v", err)
	}
	if !bytes.Equal(gotSalt, salt) {
		t.Errorf("Salt() = %v, want %v", gotSalt, salt)
	}
}

func TestFileSystemStore_saltFileNaming(t *testing.T) {
	root := filepath.Join(t.TempDir(), "artifacts")
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Put("doc.enc", []byte("ct"), []byte("salt")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "doc.enc"+SaltSuffix)); err != nil {
		t.Errorf("expected salt file doc.enc%s: %v", SaltSuffix, err)
	}
}

func TestFileSystemStore_missingArtifacts(t *testing.T) {
	s, err := NewFileSystemStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if _, err := s.Ciphertext("nope.enc"); err == nil {
		t.Error("Ciphertext() on missing artifact: expected error, got nil")
	}

	_, err = s.Salt("nope.enc")
	if !errors.Is(err, sealpost.ErrMissingSalt) {
		t.Errorf("Salt() error = %v, want ErrMissingSalt", err)
	}
}

func TestFileSystemStore_lostSaltIsDetectable(t *testing.T) {
	root := filepath.Join(t.TempDir(), "artifacts")
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Put("doc.enc", []byte("ct"), []byte("salt")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := os.Remove(filepath.Join(root, "doc.enc"+SaltSuffix)); err != nil {
		t.Fatal(err)
	}

	// The ciphertext is still readable; only the salt lookup fails.
	if _, err := s.Ciphertext("doc.enc"); err != nil {
		t.Errorf("Ciphertext() error = %v", err)
	}
	_, err = s.Salt("doc.enc")
	if !errors.Is(err, sealpost.ErrMissingSalt) {
		t.Errorf("Salt() error = %v, want ErrMissingSalt", err)
	}
}

func TestMemoryStore_artifacts(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Put("a.enc", []byte("ct"), []byte("salt")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ct, err := s.Ciphertext("a.enc")
	if err != nil || string(ct) != "ct" {
		t.Errorf("Ciphertext() = %q, %v", ct, err)
	}

	s.DeleteSalt("a.enc")
	if _, err := s.Salt("a.enc"); !errors.Is(err, sealpost.ErrMissingSalt) {
		t.Errorf("Salt() after delete error = %v, want ErrMissingSalt", err)
	}

	s.Corrupt("a.enc", []byte("tampered"))
	ct, _ = s.Ciphertext("a.enc")
	if string(ct) != "tampered" {
		t.Errorf("Ciphertext() after Corrupt = %q", ct)
	}
}
