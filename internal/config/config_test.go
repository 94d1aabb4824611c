package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enliven17/mineSomnia/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MINE_GENERATOR", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("STARTING_BALANCE", "")

	cfg, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "chain", cfg.MineGenerator)
	assert.EqualValues(t, 10000, cfg.StartingBalance)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadRejectsProductionWithoutSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownGenerator(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("MINE_GENERATOR", "roulette")

	_, err := config.Load()
	assert.Error(t, err)
}
