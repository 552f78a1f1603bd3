package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor applied to every password.
const HashCost = 10

// PasswordHasher produces and verifies salted one-way password hashes.
// Hashing the same plaintext twice yields distinct outputs; each output
// verifies independently.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: HashCost}
}

// Hash returns the bcrypt hash of plaintext. Errors from the primitive
// (e.g. plaintext over bcrypt's 72-byte limit) surface as internal errors,
// never as a verification mismatch.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether hashed was produced from plaintext. A malformed
// hash is treated as a non-match, not an error.
func (h *PasswordHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
