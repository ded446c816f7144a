package utils

import "golang.org/x/crypto/bcrypt" // Password hashing

// DefaultBcryptCost matches the work factor the platform has always used
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt at the given cost.
// Callers invoke this only when a password is newly set or changed; an
// already-hashed value must never pass through here again.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost // Fall back to the default work factor
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err // Return error if hashing fails
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored bcrypt hash
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
