package main

import (
	"context"                          // context package is needed for Redis operations
	"log"                              // log package is needed for logging
	"time"                             // CORS max age
	"rfx_ecoverse/internal/api"        // Custom package for API handlers
	"rfx_ecoverse/internal/config"     // Custom package for configuration
	"rfx_ecoverse/internal/domain"     // Role constants for route gating
	"rfx_ecoverse/internal/middleware" // Custom package for middleware

	"github.com/gin-contrib/cors"  // CORS middleware for the SPA
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database.
	// TranslateError turns duplicate-key violations into gorm.ErrDuplicatedKey,
	// which is the only conflict signal the stores trust.
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS for the browser frontend
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://rfx-ecoverse.com"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Auth routes (public)
	auth := r.Group("/auth")
	auth.POST("/signup", api.SignupHandler(db, redisClient, cfg))     // Registration endpoint
	auth.POST("/login", api.LoginHandler(db, cfg))                    // Login endpoint
	auth.POST("/forgot-password", api.ForgotPasswordHandler(db))      // Reset token issuance
	auth.POST("/reset-password", api.ResetPasswordHandler(db, cfg))   // Reset token consumption

	// User routes (any authenticated caller)
	userGroup := r.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("/profile", api.GetProfileHandler(db))                         // Own profile
	userGroup.PATCH("/profile", api.UpdateProfileHandler(db, cfg))               // Merge-patch profile
	userGroup.GET("/wallet", api.GetWalletHandler(db, redisClient))              // Balance + history
	userGroup.GET("/referrals", api.GetReferralsHandler(db))                     // Referral roster
	userGroup.GET("/notifications", api.ListNotificationsHandler(db))            // Notification list
	userGroup.PATCH("/notifications/*action", api.PatchNotificationsHandler(db)) // :id/read and mark-all-read

	// Admin routes (admin and super_admin)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(db, domain.RoleAdmin))
	adminGroup.GET("/dashboard-summary", api.DashboardSummaryHandler(db, redisClient)) // Aggregate metrics
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))                    // User roster
	adminGroup.GET("/transactions", api.ListTransactionsHandler(db, redisClient))      // Platform ledger

	// Super-admin routes (super_admin only)
	saGroup := r.Group("/super-admin")
	saGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(db, domain.RoleSuperAdmin))
	saGroup.GET("/settings", api.ListSettingsHandler(db))       // List platform settings
	saGroup.PATCH("/settings", api.UpsertSettingHandler(db))    // Upsert one setting
	saGroup.GET("/admins", api.ListAdminsHandler(db))                         // Admin roster
	saGroup.POST("/admins", api.AddAdminHandler(db, redisClient, cfg))        // Provision an admin
	saGroup.PATCH("/admins/:id", api.UpdateAdminHandler(db, redisClient))     // Patch an admin
	saGroup.DELETE("/admins/:id", api.RemoveAdminHandler(db, redisClient))    // Demote an admin

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
