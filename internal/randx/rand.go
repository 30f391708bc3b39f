// Package randx generates cryptographically secure random values used as
// secrets (remember-me tokens).
package randx

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString draws size bytes from the CSPRNG and returns them
// hex-encoded, so the result is 2*size characters long. It fails only if
// the random source does.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
