package domain

import "time"

// DefaultAvatar is used when a user has not uploaded a picture
const DefaultAvatar = "https://www.gravatar.com/avatar/?d=mp"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                            // Primary key
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`    // Unique username
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`      // Unique email
	Password     string    `gorm:"not null" json:"-"`                               // Bcrypt hash, never serialized
	Role         Role      `gorm:"size:20;not null;default:user" json:"role"`       // user, admin or super_admin
	RFXBalance   float64   `gorm:"column:rfx_balance;not null;default:0" json:"rfxBalance"` // Denormalized reward balance
	XP           int64     `gorm:"not null;default:0" json:"xp"`                    // Cumulative experience points
	CO2Saved     float64   `gorm:"column:co2_saved;not null;default:0" json:"co2Saved"` // Environmental impact counter
	Achievements []string  `gorm:"serializer:json" json:"achievements"`             // Achievement tags
	ReferralCode *string   `gorm:"size:20;uniqueIndex" json:"referralCode,omitempty"` // Unique, NULL allowed
	ReferredBy   *string   `gorm:"size:20;index" json:"-"`                          // Referral code used at signup
	Avatar       string    `json:"avatar"`                                          // Avatar URL
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joinedAt"`                  // Account creation time
}

// Level is derived from XP rather than stored: 100 XP per level, starting at 1.
func (u *User) Level() int {
	return int(u.XP/100) + 1
}
