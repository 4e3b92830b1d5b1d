package main

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var errMissingJWTSecret = errors.New("JWT_SECRET is required")

// config holds process settings read from the environment (and .env in dev).
type config struct {
	DBURL         string
	Port          string
	JWTSecret     []byte
	TokenTTL      time.Duration
	OpenAIBaseURL string
	GinMode       string
}

// loadConfig reads .env if present, then the environment. Only JWT_SECRET is
// mandatory; everything else falls back to a development default.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[loadConfig] no .env file loaded: %v", err)
	}

	cfg := config{
		DBURL:         getEnv("DB_URL", ""),
		Port:          getEnv("PORT", "3000"),
		JWTSecret:     []byte(getEnv("JWT_SECRET", "")),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		GinMode:       getEnv("GIN_MODE", "debug"),
	}
	if len(cfg.JWTSecret) == 0 {
		return cfg, errMissingJWTSecret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back on unset, malformed, or non-positive values.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
