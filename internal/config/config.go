// Package config loads application configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port         int
	DatabasePath string

	// AuthJWKS is a file path or URL for the identity provider's JSON Web
	// Key Set. AuthIssuer, when set, is required to match the token's iss
	// claim.
	AuthJWKS   string
	AuthIssuer string

	DevMode bool
}

// Load reads an optional .env file, then the environment, applying defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	return &Config{
		Port:         getEnvInt("PORT", 8080),
		DatabasePath: getEnv("DATABASE_PATH", "rentfolio.db"),
		AuthJWKS:     getEnv("AUTH_JWKS", ""),
		AuthIssuer:   getEnv("AUTH_ISSUER", ""),
		DevMode:      getEnvBool("DEV_MODE", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
