package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for stored password hashes.
const DefaultBcryptCost = 12

// maxPasswordBytes is the bcrypt input limit. Longer passwords are truncated
// in both Hash and Verify, so only the first 72 bytes are significant.
const maxPasswordBytes = 72

// BcryptHasher hashes and verifies passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Compared against when no stored hash exists so that the unknown-user path
	// costs the same as a wrong password.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &BcryptHasher{cost: cost, dummyHash: dummy}, nil
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. An empty hash is compared
// against the dummy hash and always fails.
func (h *BcryptHasher) Verify(plaintext string, hash string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash, truncate(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		return b[:maxPasswordBytes]
	}
	return b
}
