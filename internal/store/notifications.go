package store

import (
	"gorm.io/gorm" // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy
)

// CreateNotification records a new unread notification for a user
func CreateNotification(db *gorm.DB, userID uint, title, message string) error {
	return db.Create(&domain.Notification{
		UserID:  userID,  // Owning user
		Title:   title,   // Short headline
		Message: message, // Payload text
	}).Error
}

// ListNotifications returns a user's notifications, newest first
func ListNotifications(db *gorm.DB, userID uint) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flags one notification as read. The query is scoped
// to the owner, so another user's notification looks like a missing one.
func MarkNotificationRead(db *gorm.DB, userID, notificationID uint) error {
	res := db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either it does not exist, belongs to someone else, or was already
		// read; re-check so an already-read toggle stays a success.
		var n domain.Notification
		if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
			return errs.New(errs.NotFound, "Notification not found")
		}
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification as read.
// Calling it twice in a row leaves the same end state both times.
func MarkAllNotificationsRead(db *gorm.DB, userID uint) error {
	return db.Model(&domain.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}
