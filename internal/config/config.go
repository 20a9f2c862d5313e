package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	ServerAddr string
	BaseURL    string

	// JWT settings
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Token lifetimes
	AccessTokenExpiration       time.Duration // user-bound access tokens (login, code, refresh grants)
	ClientCredentialsExpiration time.Duration // service-to-service access tokens
	AuthorizationCodeExpiration time.Duration
	RefreshTokenExpiration      time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Seed demo users and clients at startup
	SeedDemoData bool

	// Background cleanup of expired codes and tokens
	CleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token guarding /metrics; empty disables auth

	// Gin mode
	IsProduction bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "auth.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":3001"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3001"),
		JWTSecret:   getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
		JWTIssuer:   getEnv("JWT_ISSUER", "ecommerce-auth-service"),
		JWTAudience: getEnv("JWT_AUDIENCE", "ecommerce-api"),

		AccessTokenExpiration:       getEnvDuration("ACCESS_TOKEN_EXPIRATION", 15*time.Minute),
		ClientCredentialsExpiration: getEnvDuration("CLIENT_CREDENTIALS_EXPIRATION", time.Hour),
		AuthorizationCodeExpiration: getEnvDuration("AUTH_CODE_EXPIRATION", 10*time.Minute),
		RefreshTokenExpiration:      getEnvDuration("REFRESH_TOKEN_EXPIRATION", 7*24*time.Hour),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		SeedDemoData:    getEnvBool("SEED_DEMO_DATA", true),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", time.Hour),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		IsProduction: getEnvBool("PRODUCTION", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
