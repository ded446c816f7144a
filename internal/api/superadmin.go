package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library

	"rfx_ecoverse/internal/config" // Configuration
	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/errs"   // Error taxonomy
	"rfx_ecoverse/internal/store"  // Persistence operations
)

// ListSettingsHandler returns every platform setting
func ListSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := store.ListSettings(db)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// UpsertSettingRequest is the settings write payload
type UpsertSettingRequest struct {
	Key         string `json:"key" binding:"required,max=100"` // Setting key must be provided
	Value       string `json:"value" binding:"required"`       // Setting value must be provided
	Description string `json:"description"`                    // Optional human description
}

// UpsertSettingHandler creates the setting on first write and updates it
// after; repeated calls with the same key converge on the latest value.
func UpsertSettingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertSettingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Key and value are required"})
			return
		}
		setting, created, err := store.UpsertSetting(db, req.Key, req.Value, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"key":     setting.Key,
			"created": created,
		}).Info("Platform setting written")
		status := http.StatusOK
		if created {
			status = http.StatusCreated // First write of this key
		}
		c.JSON(status, gin.H{"setting": setting})
	}
}

// ListAdminsHandler returns every admin and super admin account
func ListAdminsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := store.ListAdmins(db)
		if err != nil {
			respondErr(c, err)
			return
		}
		rows := make([]UserPayload, len(admins))
		for i := range admins {
			rows[i] = userPayload(&admins[i])
		}
		c.JSON(http.StatusOK, gin.H{"admins": rows})
	}
}

// AddAdminRequest is the payload for provisioning an admin account
type AddAdminRequest struct {
	Username string `json:"username" binding:"required,max=50"` // Username must be provided
	Email    string `json:"email" binding:"required,email"`     // Valid email must be provided
	Password string `json:"password" binding:"required,min=6"`  // Password must be provided
	Role     string `json:"role"`                               // admin (default) or super_admin
}

// AddAdminHandler creates a new privileged account. No welcome bonus is
// credited; staff accounts live outside the reward program.
func AddAdminHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter all fields"})
			return
		}
		role := domain.Role(req.Role)
		if req.Role == "" {
			role = domain.RoleAdmin // Default to admin if not specified
		}
		if role != domain.RoleAdmin && role != domain.RoleSuperAdmin {
			respondErr(c, errs.New(errs.Validation, "Role must be admin or super_admin"))
			return
		}
		user, err := store.CreateUser(db, store.CreateUserInput{
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			Role:       role,
			BcryptCost: cfg.BcryptCost,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		invalidateRosterCache(rdb) // The cached roster pages are stale now
		logrus.WithFields(logrus.Fields{
			"admin_id": user.ID,
			"role":     user.Role,
		}).Info("Admin account created")
		c.JSON(http.StatusCreated, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		})
	}
}

// UpdateAdminRequest carries the patchable admin fields
type UpdateAdminRequest struct {
	Username *string `json:"username" binding:"omitempty,max=50"` // New username
	Email    *string `json:"email" binding:"omitempty,email"`     // New email
	Role     *string `json:"role"`                                // New role tier
}

// UpdateAdminHandler applies a merge-patch to an admin account. The patch
// and the role change commit together, so a role transition refused by the
// last-super-admin guard rolls the whole request back.
func UpdateAdminHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Target account from the path
		if err != nil || id <= 0 {
			respondErr(c, errs.New(errs.Validation, "Invalid admin id"))
			return
		}
		var req UpdateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var newRole *domain.Role // Role transitions pass through the last-super-admin guard
		if req.Role != nil {
			r := domain.Role(*req.Role)
			newRole = &r
		}
		user, err := store.UpdateAdmin(db, uint(id), store.ProfilePatch{
			Username: req.Username,
			Email:    req.Email,
		}, newRole)
		if err != nil {
			respondErr(c, err)
			return
		}
		invalidateRosterCache(rdb) // The cached roster pages are stale now
		c.JSON(http.StatusOK, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		})
	}
}

// RemoveAdminHandler demotes an admin back to a regular user. The account
// itself is kept; removing the last super admin is refused.
func RemoveAdminHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Target account from the path
		if err != nil || id <= 0 {
			respondErr(c, errs.New(errs.Validation, "Invalid admin id"))
			return
		}
		if err := store.DemoteAdmin(db, uint(id)); err != nil {
			respondErr(c, err)
			return
		}
		invalidateRosterCache(rdb) // The cached roster pages are stale now
		logrus.WithFields(logrus.Fields{"admin_id": id}).Info("Admin demoted to user")
		c.JSON(http.StatusOK, gin.H{"message": "Admin role removed, user demoted to regular user"})
	}
}
