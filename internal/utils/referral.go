package utils

import (
	"strings" // String manipulation

	"github.com/google/uuid" // Random code source
)

// NewReferralCode generates a short shareable referral code. Uniqueness is
// enforced by the unique index on users.referral_code, not here.
func NewReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "") // Strip dashes from a random UUID
	return "RFX-" + strings.ToUpper(raw[:8])             // Short uppercase code
}
