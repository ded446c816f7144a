package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string  // Application port
	DBUser        string  // Database user
	DBPassword    string  // Database password
	DBHost        string  // Database host
	DBPort        string  // Database port
	DBName        string  // Database name
	JWTSecret     string  // JWT secret key
	RedisAddr     string  // Redis server address
	RedisPass     string  // Redis password
	RedisDB       int     // Redis database number
	IsProd        bool    // Is production environment
	BcryptCost    int     // Password hashing work factor
	WelcomeBonus  float64 // RFX credited once at signup
	ReferralBonus float64 // RFX credited to the referrer, unless overridden by a platform setting
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       os.Getenv("APP_PORT"),                            // Application port
		DBUser:        os.Getenv("DB_USER"),                             // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                         // Database password
		DBHost:        os.Getenv("DB_HOST"),                             // Database host
		DBPort:        os.Getenv("DB_PORT"),                             // Database port
		DBName:        os.Getenv("DB_NAME"),                             // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),                          // JWT secret key
		RedisAddr:     os.Getenv("REDIS_ADDR"),                          // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                          // Redis password
		RedisDB:       redisDB,                                          // Redis database number
		IsProd:        os.Getenv("IS_PROD") == "true",                   // Is production environment
		BcryptCost:    envInt("BCRYPT_COST", 10),                        // Hashing work factor
		WelcomeBonus:  envFloat("WELCOME_BONUS", 10),                    // Signup bonus in RFX
		ReferralBonus: envFloat("REFERRAL_BONUS", 50),                   // Referral bonus in RFX
	}
}

// envInt reads an integer environment variable with a default
func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

// envFloat reads a float environment variable with a default
func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v >= 0 {
		return v
	}
	return def
}
