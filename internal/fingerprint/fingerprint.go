// Package fingerprint computes stable content identities for documents.
package fingerprint

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Text computes a hex-encoded BLAKE2b-256 digest of the document text.
// Leading and trailing whitespace is stripped before hashing so that
// extraction artifacts at the boundaries don't change a document's identity.
func Text(text string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
