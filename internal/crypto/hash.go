package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumHex returns the hex-encoded SHA-256 digest of data. This is the
// content hash committed to the ledger for every ciphertext, and is usable
// as an integrity check independent of password knowledge.
func SumHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
