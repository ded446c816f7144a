package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"rfx_ecoverse/internal/config" // Configuration
	"rfx_ecoverse/internal/store"  // Persistence operations
)

// GetProfileHandler returns the authenticated user's own record
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Set by the auth gate
		if !ok {
			return
		}
		user, err := store.FindByID(db, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
	}
}

// UpdateProfileRequest carries the updatable fields. Absent fields keep
// their current value.
type UpdateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,max=50"`    // New username
	Email       *string `json:"email" binding:"omitempty,email"`        // New email
	Avatar      *string `json:"avatar"`                                 // New avatar URL
	NewPassword *string `json:"newPassword" binding:"omitempty,min=6"`  // New password
}

// UpdateProfileHandler applies a merge-patch to the caller's profile
func UpdateProfileHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := store.UpdateProfile(db, userID, store.ProfilePatch{
			Username:    req.Username,
			Email:       req.Email,
			Avatar:      req.Avatar,
			NewPassword: req.NewPassword,
			BcryptCost:  cfg.BcryptCost,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
	}
}
