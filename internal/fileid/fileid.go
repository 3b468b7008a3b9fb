// Package fileid derives stable result identifiers from document paths.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const (
	prefix = "doc_"
	// idBytes is how much of the SHA-256 digest is kept.
	idBytes = 12
)

// ForPath returns the identifier of the document at absolutePath. The path is
// cleaned first, so equivalent spellings of one path share an ID across searches.
func ForPath(absolutePath string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return prefix + hex.EncodeToString(sum[:idBytes])
}
