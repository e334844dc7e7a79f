// Package hashutil provides deterministic filename hashing.
// The produced names are stable across runs so that repeated extraction of
// the same archive yields the same on-disk layout.
package hashutil

import (
	"crypto/sha256"
	"encoding/base64"
	"path"
)

// FileName returns a deterministic replacement for a filename.
// The result is the URL-safe base64 encoding of the SHA-256 digest of the
// original name, with the original extension re-appended so the file type
// stays recognizable. Same input always yields the same output.
func FileName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return base64.RawURLEncoding.EncodeToString(sum[:]) + path.Ext(name)
}
