package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key joins a namespace and a registry-specific identifier into a cache key,
// e.g. Key("pypi", "requests") == "pypi:requests".
func Key(namespace, id string) string {
	return namespace + ":" + id
}
