package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenesisPrevHash is the sentinel previous-hash of the first block.
const GenesisPrevHash = "0"

// Block is one ledger entry committing a single file's content hash and
// linking to the prior entry.
type Block struct {
	Index     uint64
	Timestamp time.Time
	FileHash  string // hex digest of the ciphertext bytes
	PrevHash  string // Hash of the previous block, or GenesisPrevHash
	Hash      string // computed over (Index, Timestamp, FileHash, PrevHash)
}

// ComputeHash returns the canonical hash of a block's committed fields.
// The timestamp participates at nanosecond precision so a recomputation
// after persistence round-trips is stable.
func ComputeHash(b Block) string {
	payload := fmt.Sprintf("%d|%d|%s|%s", b.Index, b.Timestamp.UnixNano(), b.FileHash, b.PrevHash)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
