package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// DataDir holds options.json and users.json.
	DataDir string

	// ClientDir is the built SPA bundle served for non-API paths.
	ClientDir string

	// CORSOrigin is the SPA dev-server origin allowed to send credentials.
	CORSOrigin string

	// SweepInterval controls how often expired sessions are evicted.
	SweepInterval time.Duration

	// Metrics endpoint authentication.
	// If both are empty, the /metrics endpoint will be unprotected.
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 3001),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		DataDir:   getEnv("DATA_DIR", "./data"),
		ClientDir: getEnv("CLIENT_DIR", "./client/dist"),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 60*time.Second),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got: %d", cfg.Port)
	}

	if cfg.SweepInterval < time.Second {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be at least 1s, got: %s", cfg.SweepInterval)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, HSTS).
func (c *Config) IsProduction() bool {
	return c.Env != "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
