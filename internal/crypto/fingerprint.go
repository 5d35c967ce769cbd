package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short hex fingerprint of an identifier such as an email.
//
// The input is trimmed and lower-cased, hashed with SHA-256 and truncated to
// 10 bytes (20 hex chars).
func Fingerprint(id string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(id))))
	return hex.EncodeToString(sum[:10])
}
