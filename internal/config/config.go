package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL      string
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string

	// Redis
	RedisURL string

	// Server
	Port string

	// Judge
	JudgeAPIKey     string
	JudgeBackend    string // "perplexity" or "openai"
	OfflineMode     bool
	JudgeTimeout    time.Duration
	JudgeMaxRetries int
}

func Load() *Config {
	return &Config{
		// Environment
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Database. DATABASE_URL is optional: without it the server runs
		// on the volatile in-memory store.
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", ""),
		PostgresDB:       getEnvOrDefault("POSTGRES_DB", ""),
		PostgresUser:     getEnvOrDefault("POSTGRES_USER", ""),
		PostgresPassword: getEnvOrDefault("POSTGRES_PASSWORD", ""),
		PostgresHost:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvOrDefault("POSTGRES_PORT", "5432"),

		// Redis leaderboard cache, optional
		RedisURL: getEnvOrDefault("REDIS_URL", ""),

		// Server
		Port: getEnvOrDefault("PORT", "8080"),

		// Judge
		JudgeAPIKey:     getEnvOrDefault("JUDGE_API_KEY", ""),
		JudgeBackend:    getEnvOrDefault("JUDGE_BACKEND", "perplexity"),
		OfflineMode:     getEnvBool("OFFLINE_MODE", false),
		JudgeTimeout:    time.Duration(getEnvInt("JUDGE_TIMEOUT_SECONDS", 60)) * time.Second,
		JudgeMaxRetries: getEnvInt("JUDGE_MAX_RETRIES", 3),
	}
}

func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.PostgresDB == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
