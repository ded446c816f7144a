package domain

// PlatformSetting Model: key/value configuration entries written by
// super admins, upsert semantics keyed on Key
type PlatformSetting struct {
	ID          uint   `gorm:"primaryKey" json:"id"`                  // Primary key
	Key         string `gorm:"size:100;uniqueIndex;not null" json:"key"` // Unique setting key
	Value       string `gorm:"not null" json:"value"`                 // Opaque value
	Description string `json:"description"`                           // Human description
}
