// Package config loads service configuration from the environment. The
// signing secret is the one value with no default and no fallback: a
// process without JWT_SECRET refuses to start instead of silently failing
// every validation it will ever perform.
package config

import (
	"errors"
	"os"
	"time"
)

// Config is the environment-derived configuration shared by both services.
type Config struct {
	AppPort string

	JWTSecret []byte

	RedisAddr     string
	RedisPassword string

	DatabaseURL string

	AuthServerURL string
	CORSOrigin    string

	ValidateTimeout time.Duration
}

// ErrSecretMissing is returned when JWT_SECRET is absent or empty.
var ErrSecretMissing = errors.New("config: JWT_SECRET is required")

// Load reads the environment. defaultPort is the service's fallback port.
func Load(defaultPort string) (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, ErrSecretMissing
	}

	cfg := Config{
		AppPort:         getenv("APP_PORT", defaultPort),
		JWTSecret:       []byte(secret),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AuthServerURL:   getenv("AUTH_SERVER_URL", "http://localhost:3001"),
		CORSOrigin:      getenv("CORS_ORIGIN", "http://localhost:3000"),
		ValidateTimeout: 5 * time.Second,
	}

	if raw := os.Getenv("VALIDATE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, errors.New("config: invalid VALIDATE_TIMEOUT")
		}
		cfg.ValidateTimeout = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
