package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	// FrontendURL is the public web origin used for outbound links (rank
	// change emails). Defaults to the first allowed origin.
	FrontendURL string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret  string
	CronSecret string

	ResendAPIKey string
	EmailFrom    string

	// LeaderboardCron is a robfig/cron spec, e.g. "@every 24h" or "0 3 * * *".
	// Empty disables the in-process scheduler.
	LeaderboardCron string

	// Notification delivery throttle: at most NotifyBatchSize sends are in
	// flight at once, with NotifyBatchPause between batches. Matches the
	// email provider's rate limit.
	NotifyBatchSize  int
	NotifyBatchPause time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", ""),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		CronSecret: os.Getenv("CRON_SECRET"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "0unveiled <notifications@0unveiled.com>"),

		LeaderboardCron: getEnv("LEADERBOARD_CRON", "@every 24h"),
	}
	cfg.FrontendURL = getEnv("FRONTEND_URL", strings.Split(cfg.AllowedOrigins, ",")[0])

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	batchSize, err := strconv.Atoi(getEnv("NOTIFY_BATCH_SIZE", "2"))
	if err != nil || batchSize < 1 {
		return nil, fmt.Errorf("NOTIFY_BATCH_SIZE must be a positive integer")
	}
	cfg.NotifyBatchSize = batchSize

	cfg.NotifyBatchPause, err = time.ParseDuration(getEnv("NOTIFY_BATCH_PAUSE", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_BATCH_PAUSE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
