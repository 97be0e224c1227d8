package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketBlocks = []byte("blocks")

// BoltStore persists ledger blocks in a bbolt database, keyed by big-endian
// block index so a cursor scan returns them in chain order.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlocks)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// indexKey encodes a block index as an 8-byte big-endian key for sorted
// storage.
func indexKey(i uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, i)
	return k
}

// AppendBlock durably records a block.
func (s *BoltStore) AppendBlock(b Block) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return fmt.Errorf("ledger: encode block %d: %w", b.Index, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBlocks)
		if bucket.Get(indexKey(b.Index)) != nil {
			return fmt.Errorf("ledger: block %d already persisted", b.Index)
		}
		return bucket.Put(indexKey(b.Index), buf.Bytes())
	})
}

// LoadBlocks returns all persisted blocks in index order.
func (s *BoltStore) LoadBlocks() ([]Block, error) {
	var blocks []Block

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketBlocks).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var b Block
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&b); err != nil {
				return fmt.Errorf("ledger: decode block: %w", err)
			}
			blocks = append(blocks, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)
