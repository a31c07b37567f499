// Package config loads the server configuration from the environment, with a
// .env file picked up for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the listen address of the HTTP API.
	Addr string
	// DatabaseDSN selects storage: a Postgres DSN, or empty for the
	// in-memory repository used in local development.
	DatabaseDSN string
	// SecretKey signs access tokens.
	SecretKey string
	// TokenTTL bounds the lifetime of issued access tokens.
	TokenTTL time.Duration
	// ShutdownTimeout bounds graceful shutdown on exit.
	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Addr:            getEnv("QUIZDECK_ADDR", ":8080"),
		DatabaseDSN:     getEnv("QUIZDECK_DATABASE_DSN", ""),
		SecretKey:       getEnv("QUIZDECK_SECRET_KEY", "dev-secret-change-me"),
		TokenTTL:        time.Duration(getEnvAsInt("QUIZDECK_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		ShutdownTimeout: time.Duration(getEnvAsInt("QUIZDECK_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
