package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Backend API:
// - GYMAI_API_URL: base URL of the GymAI backend (required)
// - GYMAI_API_TIMEOUT: request timeout in seconds (default: 15)
//
// Progress tracking:
// - GYMAI_POLL_INTERVAL_MS: status poll interval (default: 2000)
// - GYMAI_TRICKLE_INTERVAL_MS: trickle tick interval (default: 200)
//
// Task store:
// - GYMAI_STORE_PATH: sqlite file for persisted task ids (default: data/tasks.db)
// - GYMAI_JANITOR_CRON: cron expression for stale-id purge (default: "0 * * * *")
// - GYMAI_TASK_TTL_HOURS: age after which a persisted id is purged (default: 24)
//
// Notifications and locale:
// - TELEGRAM_BOT_TOKEN: bot token for completion messages (optional)
// - TELEGRAM_CHAT_ID: chat to notify (optional)
// - GYMAI_LOCALE: BCP 47 locale for user-facing copy (default: en)
type Config struct {
	API      APIConfig      `json:"api"`
	Tracker  TrackerConfig  `json:"tracker"`
	Store    StoreConfig    `json:"store"`
	Telegram TelegramConfig `json:"telegram"`
	Locale   string         `json:"locale"`
}

type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

type TrackerConfig struct {
	PollInterval    time.Duration `json:"poll_interval"`
	TrickleInterval time.Duration `json:"trickle_interval"`
}

type StoreConfig struct {
	Path        string        `json:"path"`
	JanitorCron string        `json:"janitor_cron"`
	TaskTTL     time.Duration `json:"task_ttl"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   int64  `json:"chat_id"`
}

// Enabled reports whether completion notifications are configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		API: APIConfig{
			BaseURL: getEnvString("GYMAI_API_URL", ""),
			Timeout: time.Duration(getEnvInt("GYMAI_API_TIMEOUT", 15)) * time.Second,
		},
		Tracker: TrackerConfig{
			PollInterval:    time.Duration(getEnvInt("GYMAI_POLL_INTERVAL_MS", 2000)) * time.Millisecond,
			TrickleInterval: time.Duration(getEnvInt("GYMAI_TRICKLE_INTERVAL_MS", 200)) * time.Millisecond,
		},
		Store: StoreConfig{
			Path:        getEnvString("GYMAI_STORE_PATH", "data/tasks.db"),
			JanitorCron: getEnvString("GYMAI_JANITOR_CRON", "0 * * * *"),
			TaskTTL:     time.Duration(getEnvInt("GYMAI_TASK_TTL_HOURS", 24)) * time.Hour,
		},
		Telegram: TelegramConfig{
			BotToken: getEnvString("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
		},
		Locale: getEnvString("GYMAI_LOCALE", "en"),
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("GYMAI_API_URL is required")
	}
	if c.Tracker.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Tracker.TrickleInterval <= 0 {
		return fmt.Errorf("trickle interval must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 gets a 64-bit integer value from environment variables with default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
