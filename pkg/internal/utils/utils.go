package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Sha256Hex returns the hex encoded SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GenerateUniqueHash returns a random identifier for component metadata.
func GenerateUniqueHash() string {
	currentTime := time.Now().UnixNano()
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		panic("random number generator failed")
	}

	hashInput := append([]byte(fmt.Sprintf("%d", currentTime)), randomBytes...)
	return Sha256Hex(hashInput)
}

// Filter returns the elements of elems for which keep is true.
func Filter[T any](elems []T, keep func(T) bool) []T {
	var out []T
	for _, e := range elems {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
