// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs.
type Config struct {
	Env  string
	Port string

	DB DatabaseConfig

	JWTSecret     string
	JWTExpire     time.Duration
	BcryptCost    int
	RunMigrations bool
	SeedAdmin     bool

	// CORSOrigins restricts cross-origin callers. Empty means allow all.
	CORSOrigins []string
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
}

// IsProduction reports whether the server runs with production error masking.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and resolves all settings with defaults.
func Load() Config {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		DB: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			User:         getEnv("DB_USER", "root"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "users_db"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpire:     time.Duration(getEnvInt("JWT_EXPIRE_HOURS", 24*7)) * time.Hour,
		BcryptCost:    getEnvInt("BCRYPT_COST", 12),
		RunMigrations: getEnv("RUN_MIGRATIONS", "") == "true",
		SeedAdmin:     getEnv("SEED_DEFAULT_ADMIN", "") == "true",
		CORSOrigins:   getEnvList("CORS_ORIGINS"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvList parses a comma-separated env value, skipping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
