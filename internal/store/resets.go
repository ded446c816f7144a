package store

import (
	"crypto/rand"   // Token entropy
	"crypto/sha256" // Token digest
	"encoding/hex"  // Hex encoding
	"time"          // Expiry handling

	"gorm.io/gorm" // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy
)

// ResetTokenTTL bounds how long a password reset token stays usable
const ResetTokenTTL = time.Hour

// IssueResetToken mints a single-use reset token for a user and returns the
// plaintext. Only the SHA-256 digest is stored; outstanding tokens for the
// same user are invalidated so at most one reset is ever live.
func IssueResetToken(db *gorm.DB, userID uint) (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw) // Plaintext handed to the user, once
	digest := hashToken(token)
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		// Burn any previous outstanding token for this user
		if err := tx.Model(&domain.PasswordReset{}).
			Where("user_id = ? AND used_at IS NULL", userID).
			Update("used_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&domain.PasswordReset{
			UserID:    userID,
			TokenHash: digest,
			ExpiresAt: now.Add(ResetTokenTTL),
		}).Error
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken validates a plaintext token and marks it used, all in
// the caller's transaction. A spent, expired or unknown token produces the
// same error so callers cannot distinguish the cases.
func ConsumeResetToken(tx *gorm.DB, token string) (uint, error) {
	invalid := errs.New(errs.Validation, "Invalid or expired token")
	if token == "" {
		return 0, invalid
	}
	var reset domain.PasswordReset
	err := tx.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", hashToken(token), time.Now()).
		First(&reset).Error
	if err == gorm.ErrRecordNotFound {
		return 0, invalid
	}
	if err != nil {
		return 0, err
	}
	now := time.Now()
	if err := tx.Model(&reset).Update("used_at", now).Error; err != nil {
		return 0, err
	}
	return reset.UserID, nil
}

// hashToken digests a plaintext token for storage and lookup
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
