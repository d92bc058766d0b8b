package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr     = ":8080"
	defaultTokenTTL = 24 * time.Hour
	defaultAuthorID = int64(1)
)

type Config struct {
	Addr        string
	DatabaseURL string
	// RedisURL is optional; when empty the versions transient falls back to
	// the in-process cache.
	RedisURL  string
	JWTSecret string
	// AuthorID is stamped on every record created or updated through the API.
	AuthorID     int64
	TokenTTL     time.Duration
	TransientTTL time.Duration
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         getenv("DMR_ADDR", defaultAddr),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthorID:     defaultAuthorID,
		TokenTTL:     defaultTokenTTL,
		TransientTTL: 0,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if raw := os.Getenv("DMR_AUTHOR_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("DMR_AUTHOR_ID is not a positive integer: %q", raw)
		}
		cfg.AuthorID = id
	}

	if raw := os.Getenv("DMR_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("DMR_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	if raw := os.Getenv("DMR_TRANSIENT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("DMR_TRANSIENT_TTL: %w", err)
		}
		cfg.TransientTTL = ttl
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
