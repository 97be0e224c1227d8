// Package ledger implements an append-only hash chain of file fingerprints.
// Each encrypted file's content hash is committed as one block linked to the
// previous block's hash, so any post-encryption tampering with a stored
// ciphertext is detectable by re-verifying the chain.
//
// The chain is single-process and in-memory; a Store may persist blocks as
// they are appended. History is never rewritten: corruption found by Verify
// is reported, not repaired.
package ledger

import (
	"fmt"
	"sync"
	"time"
)

// Store persists blocks as they are appended and restores them on open.
type Store interface {
	// AppendBlock durably records a block. Blocks arrive in index order.
	AppendBlock(b Block) error

	// LoadBlocks returns all previously persisted blocks in index order.
	LoadBlocks() ([]Block, error)

	// Close releases any resources held by the store.
	Close() error
}

// Ledger owns the block sequence. Append is the only mutation path; the
// tail is guarded by a mutex so concurrent encryptions can never claim the
// same previous hash or index.
type Ledger struct {
	mu     sync.RWMutex
	blocks []Block
	store  Store
	now    func() time.Time
}

// New creates a Ledger backed by store, restoring any persisted chain.
// The restored chain is verified before use.
func New(store Store) (*Ledger, error) {
	blocks, err := store.LoadBlocks()
	if err != nil {
		return nil, fmt.Errorf("ledger: loading chain: %w", err)
	}

	l := &Ledger{
		blocks: blocks,
		store:  store,
		now:    time.Now,
	}
	if err := l.Verify(); err != nil {
		return nil, fmt.Errorf("ledger: persisted chain is corrupt: %w", err)
	}
	return l, nil
}

// Append commits a file hash as a new block at the chain tail and returns
// the block. Safe for concurrent use.
func (l *Ledger) Append(fileHash string) (Block, error) {
	if fileHash == "" {
		return Block{}, ErrEmptyFileHash
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prevHash := GenesisPrevHash
	if n := len(l.blocks); n > 0 {
		prevHash = l.blocks[n-1].Hash
	}

	b := Block{
		Index:     uint64(len(l.blocks)),
		Timestamp: l.now(),
		FileHash:  fileHash,
		PrevHash:  prevHash,
	}
	b.Hash = ComputeHash(b)

	if err := l.store.AppendBlock(b); err != nil {
		return Block{}, fmt.Errorf("ledger: persisting block %d: %w", b.Index, err)
	}

	l.blocks = append(l.blocks, b)
	return b, nil
}

// Verify recomputes every block's hash and checks every adjacent link.
// It returns nil for an intact chain, or an error naming the first broken
// block. Verify never mutates the chain.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i, b := range l.blocks {
		if b.Hash != ComputeHash(b) {
			return fmt.Errorf("%w: block %d", ErrBlockTampered, i)
		}
		if i == 0 {
			if b.PrevHash != GenesisPrevHash {
				return fmt.Errorf("%w: block 0 previous hash is %q", ErrChainBroken, b.PrevHash)
			}
			continue
		}
		if b.PrevHash != l.blocks[i-1].Hash {
			return fmt.Errorf("%w: block %d does not link to block %d", ErrChainBroken, i, i-1)
		}
	}
	return nil
}

// Close releases the backing store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// Snapshot returns a copy of the block sequence in index order.
func (l *Ledger) Snapshot() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Len returns the number of blocks in the chain.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Contains reports whether any block commits the given file hash.
func (l *Ledger) Contains(fileHash string) bool {
	_, err := l.FindByFileHash(fileHash)
	return err == nil
}

// FindByFileHash returns the first block committing the given file hash,
// or ErrBlockNotFound.
func (l *Ledger) FindByFileHash(fileHash string) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, b := range l.blocks {
		if b.FileHash == fileHash {
			return b, nil
		}
	}
	return Block{}, fmt.Errorf("%w: file hash %s", ErrBlockNotFound, fileHash)
}
