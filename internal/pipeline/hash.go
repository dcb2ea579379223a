package pipeline

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DocumentID returns the hex BLAKE3 digest of a document's input bytes.
// Identical inputs reduce to the same ID regardless of budget.
func DocumentID(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
