package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/store"  // Persistence operations
)

// referredUser is one row of the caller's referral roster
type referredUser struct {
	ID       uint   `json:"id"`       // Referred user's ID
	Username string `json:"username"` // Referred user's name
	JoinedAt string `json:"joinedAt"` // When they signed up
}

// GetReferralsHandler returns the caller's referral code, shareable link,
// the users who signed up with the code and the total earned from them.
func GetReferralsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		user, err := store.FindByID(db, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		code := ""
		if user.ReferralCode != nil {
			code = *user.ReferralCode
		}
		// Users who joined with this code
		var referred []domain.User
		if code != "" {
			if err := db.Omit("password").Where("referred_by = ?", code).Find(&referred).Error; err != nil {
				respondErr(c, err)
				return
			}
		}
		roster := make([]referredUser, len(referred))
		for i, r := range referred {
			roster[i] = referredUser{
				ID:       r.ID,
				Username: r.Username,
				JoinedAt: r.JoinedAt.UTC().Format("2006-01-02"),
			}
		}
		// Total referral earnings come from the ledger, not a counter
		var earned float64
		if err := db.Model(&domain.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND category = ? AND currency = ?", userID, domain.CategoryReferralBonus, domain.CurrencyRFX).
			Scan(&earned).Error; err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"referralCode":             code,
			"referralLink":             "https://rfx-ecoverse.com/signup?ref=" + code,
			"referredUsersCount":       len(roster),
			"totalEarnedFromReferrals": earned,
			"referredUsers":            roster,
		})
	}
}
