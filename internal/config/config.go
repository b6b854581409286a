package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process-wide configuration, loaded once at startup.
// Rotating the JWT secret invalidates all outstanding tokens.
type Config struct {
	Port      string
	JWTSecret string
	AppEnv    string
}

// Load reads configuration from a .env file (when present) and the
// environment. JWT_SECRET is required.
func Load() (Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AppEnv:    os.Getenv("APP_ENV"),
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}
