package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the API.
type Config struct {
	Port             string
	Environment      string
	Origin           string
	MongoURI         string
	MongoDatabase    string
	JWTSecret        string
	JWTExpireHours   int
	CookieExpireDays int
}

// Load reads configuration from environment variables. Call after godotenv has
// populated the environment.
func Load() (*Config, error) {
	jwtExpireHours, err := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE_HOURS: %w", err)
	}

	cookieExpireDays, err := strconv.Atoi(getEnv("JWT_COOKIE_EXPIRE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_COOKIE_EXPIRE: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("API_PORT", "8080"),
		Environment:      getEnv("APP_ENV", "development"),
		Origin:           getEnv("CORS_ORIGIN", "http://localhost:3000"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "dentacare"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpireHours:   jwtExpireHours,
		CookieExpireDays: cookieExpireDays,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return cfg, nil
}

// IsProduction reports whether the API runs in production mode. Session
// cookies are marked secure only in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
