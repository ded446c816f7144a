package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter conversion
	"strings"  // Path dispatch

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"rfx_ecoverse/internal/errs"  // Error taxonomy
	"rfx_ecoverse/internal/store" // Persistence operations
)

// ListNotificationsHandler returns the caller's notifications, newest first
func ListNotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Set by the auth gate
		if !ok {
			return
		}
		notifications, err := store.ListNotifications(db, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}

// PatchNotificationsHandler dispatches the two notification writes:
//
//	PATCH /user/notifications/:id/read       marks one read
//	PATCH /user/notifications/mark-all-read  marks every unread one read
//
// Both live behind one catch-all because the router cannot hold a static
// segment and a parameter at the same position.
func PatchNotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		action := strings.Trim(c.Param("action"), "/") // Path under /notifications/
		switch {
		case action == "mark-all-read":
			markAllNotificationsRead(c, db, userID)
		case strings.HasSuffix(action, "/read"):
			markOneNotificationRead(c, db, userID, strings.TrimSuffix(action, "/read"))
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}
}

// markOneNotificationRead flags one of the caller's notifications as read.
// Someone else's notification is indistinguishable from a missing one.
func markOneNotificationRead(c *gin.Context, db *gorm.DB, userID uint, rawID string) {
	id, err := strconv.Atoi(rawID) // Notification ID from the path
	if err != nil || id <= 0 {
		respondErr(c, errs.New(errs.Validation, "Invalid notification id"))
		return
	}
	if err := store.MarkNotificationRead(db, userID, uint(id)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// markAllNotificationsRead flags every unread notification as read.
// Repeating the call converges on the same end state.
func markAllNotificationsRead(c *gin.Context, db *gorm.DB, userID uint) {
	if err := store.MarkAllNotificationsRead(db, userID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
