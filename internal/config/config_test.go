package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "perplexity", cfg.JudgeBackend)
	assert.False(t, cfg.OfflineMode)
	assert.Equal(t, 60*time.Second, cfg.JudgeTimeout)
	assert.Equal(t, 3, cfg.JudgeMaxRetries)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OFFLINE_MODE", "true")
	t.Setenv("JUDGE_BACKEND", "openai")
	t.Setenv("JUDGE_TIMEOUT_SECONDS", "15")
	t.Setenv("JUDGE_MAX_RETRIES", "5")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.OfflineMode)
	assert.Equal(t, "openai", cfg.JudgeBackend)
	assert.Equal(t, 15*time.Second, cfg.JudgeTimeout)
	assert.Equal(t, 5, cfg.JudgeMaxRetries)
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.GetDatabaseURL())

	cfg.PostgresDB = "battles"
	cfg.PostgresUser = "app"
	cfg.PostgresPassword = "secret"
	cfg.PostgresHost = "db"
	cfg.PostgresPort = "5432"
	assert.Equal(t, "postgres://app:secret@db:5432/battles?sslmode=disable", cfg.GetDatabaseURL())

	cfg.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", cfg.GetDatabaseURL())
}
