package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AppId       string

	MongoURI string
	DBName   string

	RedisAddr     string
	RedisPassword string

	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieName      string
	BcryptCost      int

	// Cron spec for the device-session sweep that clears sessions whose
	// refresh token has expired without a logout.
	SessionSweepSpec string

	// TTL for login verification codes held in the cache.
	VerificationTTL time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "admin-backend"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "admin-backend"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AccessSecret:    getEnv("ACCESS_TOKEN_SECRET", "access-secret"),
		RefreshSecret:   getEnv("REFRESH_TOKEN_SECRET", "refresh-secret"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 30*time.Second),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		CookieName:      getEnv("REFRESH_COOKIE_NAME", "mb_refresh"),
		BcryptCost:      getInt("BCRYPT_COST", 10),

		SessionSweepSpec: getEnv("SESSION_SWEEP_SPEC", "@every 10m"),
		VerificationTTL:  getDuration("VERIFICATION_CODE_TTL", 15*time.Minute),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
