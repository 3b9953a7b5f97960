package auth

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
)

// NewSecureToken returns a random base58-encoded token of n source bytes.
// Used for session IDs and OAuth state values.
func NewSecureToken(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base58.Encode(bytes), nil
}
