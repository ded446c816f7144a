package domain

import "time"

// PasswordReset Model: single-use, time-bound reset token. Only the SHA-256
// digest of the token is persisted; the plaintext leaves the server once.
type PasswordReset struct {
	ID        uint       `gorm:"primaryKey" json:"id"`                          // Primary key
	UserID    uint       `gorm:"index;not null" json:"userId"`                  // Foreign key to User
	TokenHash string     `gorm:"size:64;uniqueIndex;not null" json:"-"`         // SHA-256 hex of the token
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`                     // Expiry time
	UsedAt    *time.Time `json:"usedAt,omitempty"`                              // Set when consumed
	CreatedAt time.Time  `json:"createdAt"`                                     // Timestamp of creation
}
