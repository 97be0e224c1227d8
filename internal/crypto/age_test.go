package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"sealpost/internal/sealpost"
)

func TestAgeCipher_roundTrip(t *testing.T) {
	c := NewAgeCipher()

	plaintext := []byte("sealed with age")
	sealed, err := c.Encrypt(plaintext, "passphrase")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if len(sealed.Salt) != SaltSize {
		t.Errorf("salt length = %d, want %d", len(sealed.Salt), SaltSize)
	}

	got, err := c.Decrypt(sealed.Ciphertext, sealed.Salt, "passphrase")
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", got, plaintext)
	}
}

func TestAgeCipher_wrongPassword(t *testing.T) {
	c := NewAgeCipher()

	sealed, err := c.Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	_, err = c.Decrypt(sealed.Ciphertext, sealed.Salt, "wrong")
	if !errors.Is(err, sealpost.ErrDecryptionFailed) {
		t.Errorf("Decrypt() error = %v, want ErrDecryptionFailed", err)
	}
}

func TestAgeCipher_saltIsBoundIntoKey(t *testing.T) {
	c := NewAgeCipher()

	sealed, err := c.Encrypt([]byte("secret"), "pw")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// The right password with the wrong salt must not open the ciphertext.
	otherSalt := make([]byte, SaltSize)
	if _, err := rand.Read(otherSalt); err != nil {
		t.Fatal(err)
	}
	_, err = c.Decrypt(sealed.Ciphertext, otherSalt, "pw")
	if !errors.Is(err, sealpost.ErrDecryptionFailed) {
		t.Errorf("Decrypt() with wrong salt error = %v, want ErrDecryptionFailed", err)
	}
}

func TestAgeCipher_missingSalt(t *testing.T) {
	c := NewAgeCipher()

	sealed, err := c.Encrypt([]byte("secret"), "pw")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	_, err = c.Decrypt(sealed.Ciphertext, nil, "pw")
	if !errors.Is(err, sealpost.ErrMissingSalt) {
		t.Errorf("Decrypt() error = %v, want ErrMissingSalt", err)
	}
}

func TestAgeCipher_openWithKeyMaterial(t *testing.T) {
	c := NewAgeCipher()

	sealed, err := c.Encrypt([]byte("deferred open"), "pw")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	got, err := c.Open(sealed.Ciphertext, sealed.KeyMaterial)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(got) != "deferred open" {
		t.Errorf("Open() = %q, want %q", got, "deferred open")
	}
}
