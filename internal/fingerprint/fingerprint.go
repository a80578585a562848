// Package fingerprint computes the content-addressed cache key for raw
// submissions. The digest is cryptographic because it keys a shared cache
// across untrusted input; second-preimage resistance matters.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the lowercase hex SHA-256 digest of the exact raw bytes.
// Deterministic and side-effect free.
func Compute(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
