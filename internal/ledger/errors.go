package ledger

import "errors"

var (
	// ErrChainBroken indicates a block's previous-hash link does not match
	// the preceding block's hash.
	ErrChainBroken = errors.New("ledger: chain link broken")

	// ErrBlockTampered indicates a block's recomputed hash does not match
	// its stored hash.
	ErrBlockTampered = errors.New("ledger: block hash mismatch")

	// ErrEmptyFileHash indicates an append was attempted with no file hash.
	ErrEmptyFileHash = errors.New("ledger: empty file hash")

	// ErrBlockNotFound indicates no block commits the given file hash.
	ErrBlockNotFound = errors.New("ledger: block not found")
)
