package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentKey returns prefix + ":" + the first 16 hex chars of sha256(text).
func ContentKey(prefix, text string) string {
	sum := sha256.Sum256([]byte(text))
	return prefix + ":" + hex.EncodeToString(sum[:8])
}
