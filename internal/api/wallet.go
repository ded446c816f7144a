package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"rfx_ecoverse/internal/domain" // Domain models
	"rfx_ecoverse/internal/ledger" // Reward ledger
	"rfx_ecoverse/internal/utils"  // Cache helpers
)

// walletResponse is the cached shape of a wallet read
type walletResponse struct {
	RFXBalance   float64              `json:"rfxBalance"`   // Denormalized balance
	Transactions []domain.Transaction `json:"transactions"` // Ledger entries, newest first
}

// GetWalletHandler returns the caller's RFX balance and full transaction
// history, newest first. Reads are cached briefly; every credit path
// invalidates the key.
func GetWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Set by the auth gate
		if !ok {
			return
		}
		ctx := context.Background()                                     // Context for Redis operations
		cacheKey := utils.WalletCacheKey + strconv.Itoa(int(userID))    // Cache key for this wallet
		var cached walletResponse
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try the cache first
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"rfxBalance":   cached.RFXBalance,
				"transactions": cached.Transactions,
				"cached":       true,
			})
			return
		}
		balance, err := ledger.Balance(db, userID) // Denormalized balance read
		if err != nil {
			respondErr(c, err)
			return
		}
		transactions, err := ledger.History(db, userID) // Reverse-chronological history
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := walletResponse{RFXBalance: balance, Transactions: transactions}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{
			"rfxBalance":   resp.RFXBalance,
			"transactions": resp.Transactions,
			"cached":       false,
		})
	}
}
