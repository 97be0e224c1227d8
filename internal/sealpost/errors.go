package sealpost

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks across the intake and scheduling
// surfaces.
var (
	// ErrDecryptionFailed indicates a wrong password or corrupted ciphertext.
	ErrDecryptionFailed = errors.New("sealpost: decryption failed")

	// ErrMissingSalt indicates the salt artifact paired with a ciphertext is absent.
	ErrMissingSalt = errors.New("sealpost: salt artifact not found")

	// ErrJobNotFound indicates no job exists with the given ID.
	ErrJobNotFound = errors.New("sealpost: job not found")

	// ErrAlreadyTerminal indicates the job has already reached a terminal
	// state and cannot transition again.
	ErrAlreadyTerminal = errors.New("sealpost: job already in terminal state")

	// ErrInvalidScheduleTime indicates the requested fire time is in the past.
	ErrInvalidScheduleTime = errors.New("sealpost: scheduled time is in the past")

	// ErrLedgerMismatch indicates a ciphertext whose hash is not committed to
	// the ledger, or whose stored bytes no longer match the committed hash.
	ErrLedgerMismatch = errors.New("sealpost: ciphertext not verified by ledger")
)

// ValidationError reports a rejected intake field with a reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sealpost: invalid %s: %s", e.Field, e.Reason)
}
