// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending goose migrations before serving.
	// Defaults to false; set MIGRATE_ON_START=true for single-instance deploys.
	MigrateOnStart bool

	// BcryptCost is the password hashing work factor. Defaults to 10.
	BcryptCost int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// variables whose values cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = maxBody

	migrate, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		invalid = append(invalid, "MIGRATE_ON_START")
	}
	cfg.MigrateOnStart = migrate

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		invalid = append(invalid, "BCRYPT_COST")
	}
	cfg.BcryptCost = cost

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
