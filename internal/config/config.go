package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string

	// AdminAddress is the only address allowed to call the pool deposit and
	// drain endpoints.
	AdminAddress string

	// MineGenerator selects how mine positions are drawn: "chain" or "fair".
	MineGenerator string

	StartingBalance int64
	MaxBet          int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:       getEnv("REDIS_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AdminAddress:    getEnv("ADMIN_ADDRESS", ""),
		MineGenerator:   getEnv("MINE_GENERATOR", "chain"),
		StartingBalance: getEnvInt64("STARTING_BALANCE", 10000),
		MaxBet:          getEnvInt64("MAX_BET", 1000000),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	switch cfg.MineGenerator {
	case "chain", "fair":
	default:
		return nil, fmt.Errorf("invalid MINE_GENERATOR: %s", cfg.MineGenerator)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
