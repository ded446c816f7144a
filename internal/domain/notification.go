package domain

import "time"

// Notification Model: created when platform events land, mutated only by
// read-state toggles, never deleted
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`          // Primary key
	UserID    uint      `gorm:"index;not null" json:"userId"`  // Foreign key to User
	Title     string    `gorm:"size:120;not null" json:"title"` // Short headline
	Message   string    `json:"message"`                       // Payload text
	Read      bool      `gorm:"not null;default:false" json:"read"` // Read flag
	CreatedAt time.Time `json:"createdAt"`                     // Timestamp of creation
}
