package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost matches the cost used by existing stored digests; changing it
// only affects newly hashed passwords.
const hashCost = 10

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: hashCost}
}

// Hash computes a salted digest of plaintext. Output differs between calls.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is
// a verification failure, not an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
