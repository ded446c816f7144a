package middleware

import (
	"net/http"                     // HTTP status codes
	"rfx_ecoverse/internal/domain" // Role hierarchy

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RequireRole gates a route group behind a minimum role tier. The hierarchy
// is super_admin ⊇ admin ⊇ user, compared in exactly one place. The role is
// re-read from the database on each request so a demotion takes effect
// immediately instead of waiting for the token to expire.
func RequireRole(db *gorm.DB, min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID) // Set by JWTAuthMiddleware
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch the caller's current role
		if err := db.Select("id", "role").First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			return
		}
		if !user.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
			return
		}
		c.Set(ContextRole, user.Role) // Refresh the role with the stored value
		c.Next()
	}
}
