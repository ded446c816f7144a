package domain

import "time"

// CurrencyRFX is the platform reward-point unit
const CurrencyRFX = "RFX"

// Transaction categories. The category carries display semantics only; the
// signed amount is the single source of the direction of the movement.
const (
	CategoryEarning       = "earning"
	CategoryBonus         = "bonus"
	CategoryReferralBonus = "referral_bonus"
	CategorySpend         = "spend"
	CategoryTransfer      = "transfer"
)

// Transaction Model: append-only ledger entry, immutable once created
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	UserID    uint      `gorm:"index;not null" json:"userId"`               // Foreign key to User
	Amount    float64   `gorm:"not null" json:"amount"`                     // Signed amount
	Currency  string    `gorm:"size:10;not null;default:RFX" json:"currency"` // Currency tag
	Category  string    `gorm:"size:30;not null;index" json:"category"`     // earning, bonus, referral_bonus, spend, transfer
	CreatedAt time.Time `json:"createdAt"`                                  // Timestamp of creation
}
