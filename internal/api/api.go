package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamp formatting

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"rfx_ecoverse/internal/domain"     // Domain models
	"rfx_ecoverse/internal/errs"       // Error taxonomy
	"rfx_ecoverse/internal/middleware" // Context keys
)

// respondErr translates an application error to its HTTP response. Server
// faults are logged with their cause and answered with a generic message.
func respondErr(c *gin.Context, err error) {
	status := errs.Status(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": errs.Message(err)})
}

// currentUserID reads the authenticated user's ID placed by the gate
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}

// UserPayload is the user record serialized on auth success and profile
// reads. The password hash has no field here by construction.
type UserPayload struct {
	ID           uint     `json:"id"`           // User ID
	Username     string   `json:"username"`     // Username
	Email        string   `json:"email"`        // Email
	Role         string   `json:"role"`         // Role tier
	RFXBalance   float64  `json:"rfxBalance"`   // Reward balance
	CO2Saved     float64  `json:"co2Saved"`     // Environmental impact
	XP           int64    `json:"xp"`           // Experience points
	Level        int      `json:"level"`        // Derived from XP
	Achievements []string `json:"achievements"` // Achievement tags
	ReferralCode string   `json:"referralCode"` // Shareable code
	Avatar       string   `json:"avatar"`       // Avatar URL
	JoinedAt     string   `json:"joinedAt"`     // Account creation time
}

// userPayload maps a domain user to its serialized form
func userPayload(u *domain.User) UserPayload {
	code := ""
	if u.ReferralCode != nil {
		code = *u.ReferralCode
	}
	achievements := u.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return UserPayload{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		RFXBalance:   u.RFXBalance,
		CO2Saved:     u.CO2Saved,
		XP:           u.XP,
		Level:        u.Level(),
		Achievements: achievements,
		ReferralCode: code,
		Avatar:       u.Avatar,
		JoinedAt:     u.JoinedAt.UTC().Format(time.RFC3339),
	}
}
