package api

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries the process configuration, read once at startup from the
// environment.
type Config struct {
	Port             string
	Environment      string
	PostgresDSN      string
	TokenSecret      []byte
	TokenTTL         time.Duration
	RedisAddr        string
	KafkaBroker      string
	TemporalAddress  string
	TemporalDisabled bool
}

// LoadConfig reads the environment. Only the token secret is mandatory:
// every backing service degrades to an in-process fallback when its address
// is absent.
func LoadConfig() (Config, error) {
	secret := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET"))
	if secret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	cfg := Config{
		Port:             envOrDefault("PORT", "8080"),
		Environment:      envOrDefault("ENVIRONMENT", "development"),
		PostgresDSN:      strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TokenSecret:      []byte(secret),
		TokenTTL:         time.Hour,
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBroker:      strings.TrimSpace(os.Getenv("KAFKA_BROKER")),
		TemporalAddress:  strings.TrimSpace(os.Getenv("TEMPORAL_ADDRESS")),
		TemporalDisabled: os.Getenv("TEMPORAL_DISABLED") == "1",
	}
	if raw := os.Getenv("TOKEN_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, errors.New("TOKEN_TTL_MINUTES must be a positive integer")
		}
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
