package queryir

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes.
// The version suffix leaves room for changing the algorithm later.
const (
	DomainQuery  = "relq/query/v1"
	DomainOutput = "relq/output/v1"
)

// NewDigest returns a SHA-256 hash already primed with the domain prefix.
// Format: SHA256(domain + 0x00 + data)
func NewDigest(domain string) hash.Hash {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	return h
}

// Sum returns the hex encoding of the digest.
func Sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Hash identifies a statement by its text.
//
// The text is trimmed and NFC-normalized first, so the same statement typed
// with composed or decomposed accents, or with trailing newlines, hashes the
// same. Whitespace inside the statement is significant.
func Hash(sql string) string {
	h := NewDigest(DomainQuery)
	h.Write([]byte(norm.NFC.String(strings.TrimSpace(sql))))
	return Sum(h)
}
