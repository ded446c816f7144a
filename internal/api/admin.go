package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/ledger" // Reward ledger
	"rfx_ecoverse/internal/store"  // Persistence operations
	"rfx_ecoverse/internal/utils"  // Cache helpers
)

// pagination reads page/page_size query params with the usual bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size within limits
		}
	}
	return page, pageSize
}

// DashboardSummaryHandler returns platform-wide metrics for the admin
// dashboard: user counts, RFX distributed from the ledger aggregate and the
// reward knobs currently configured. Cached briefly since every admin page
// load hits it.
func DashboardSummaryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached gin.H
		found, err := utils.GetCache(ctx, rdb, utils.DashboardCacheKey, &cached)
		if err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		var totalUsers int64 // All accounts
		if err := db.Model(&domain.User{}).Count(&totalUsers).Error; err != nil {
			respondErr(c, err)
			return
		}
		var newUsers int64 // Accounts created in the last 30 days
		monthAgo := time.Now().AddDate(0, 0, -30)
		if err := db.Model(&domain.User{}).Where("joined_at >= ?", monthAgo).Count(&newUsers).Error; err != nil {
			respondErr(c, err)
			return
		}
		// RFX handed out across every crediting category
		distributed, err := ledger.AggregateByCategory(db,
			[]string{domain.CategoryEarning, domain.CategoryBonus, domain.CategoryReferralBonus},
			domain.CurrencyRFX)
		if err != nil {
			respondErr(c, err)
			return
		}
		maintenance := "Inactive"
		if s, err := store.GetSetting(db, "maintenance_mode"); err == nil && s.Value == "true" {
			maintenance = "Active"
		}
		resp := gin.H{
			"totalPlatformUsers":   totalUsers,
			"newUsersLastMonth":    newUsers,
			"rfxTokensDistributed": distributed,
			"dailyRewardAmount":    store.SettingFloat(db, "daily_reward", 10),
			"referralBonus":        store.SettingFloat(db, "referral_bonus", 50),
			"maintenanceMode":      maintenance,
			"cached":               false,
		}
		_ = utils.SetCache(ctx, rdb, utils.DashboardCacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// invalidateRosterCache drops every cached roster page after a write that
// changes the user list, so admins never read a page staled by the TTL.
func invalidateRosterCache(rdb *redis.Client) {
	if rdb == nil {
		return // Cache not wired, nothing to invalidate
	}
	if err := utils.DeleteCacheByPrefix(context.Background(), rdb, utils.AdminUsersPrefix); err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Roster cache invalidation failed")
	}
}

// UserAdminRow is the user shape returned to admins
type UserAdminRow struct {
	ID         uint    `json:"id"`         // User ID
	Username   string  `json:"username"`   // Username
	Email      string  `json:"email"`      // Email
	Role       string  `json:"role"`       // Role tier
	RFXBalance float64 `json:"rfxBalance"` // Reward balance
	XP         int64   `json:"xp"`         // Experience points
	JoinedAt   string  `json:"joinedAt"`   // Account creation time
}

// ListUsersHandler returns the paginated user roster for admins
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Cache key based on pagination parameters
		cacheKey := utils.AdminUsersPrefix + "page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached struct {
			Users      []UserAdminRow `json:"users"`       // List of users
			Page       int            `json:"page"`        // Current page
			PageSize   int            `json:"page_size"`   // Page size
			Total      int64          `json:"total"`       // Total number of users
			TotalPages int            `json:"total_pages"` // Total pages
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Response served from cache
			})
			return
		}
		page, pageSize := pagination(c)
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			respondErr(c, err)
			return
		}
		var users []domain.User // Paginated slice of users, hash excluded
		if err := db.Omit("password").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			respondErr(c, err)
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		rows := make([]UserAdminRow, len(users))
		for i, u := range users {
			rows[i] = UserAdminRow{
				ID:         u.ID,
				Username:   u.Username,
				Email:      u.Email,
				Role:       string(u.Role),
				RFXBalance: u.RFXBalance,
				XP:         u.XP,
				JoinedAt:   u.JoinedAt.UTC().Format("2006-01-02"),
			}
		}
		respData := gin.H{
			"users":       rows,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second) // Cache for future requests
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns the platform ledger with optional
// filtering by user, category, currency or date range.
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build the cache key from every filter parameter
		var keyParts []string
		for _, k := range []string{"user_id", "category", "currency", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, ""))
		}
		cacheKey := utils.AdminTxPrefix + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total number of transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions,
				"page":         cached.Page,
				"page_size":    cached.PageSize,
				"total":        cached.Total,
				"total_pages":  cached.TotalPages,
				"cached":       true,
			})
			return
		}
		page, pageSize := pagination(c)
		offset := (page - 1) * pageSize          // Calculate offset for pagination
		query := db.Model(&domain.Transaction{}) // Start building the query
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category) // Filter by category
		}
		if currency := c.Query("currency"); currency != "" {
			query = query.Where("currency = ?", currency) // Filter by currency
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total matching transactions
		if err := query.Count(&total).Error; err != nil {
			respondErr(c, err)
			return
		}
		var txs []domain.Transaction // Paginated slice of transactions
		if err := query.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
			respondErr(c, err)
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"transactions": txs,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages,
			"cached":       false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}
