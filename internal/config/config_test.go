package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("GYMAI_API_URL", "https://api.gymai.test")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.gymai.test", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.Tracker.TrickleInterval)
	assert.Equal(t, "data/tasks.db", cfg.Store.Path)
	assert.Equal(t, "0 * * * *", cfg.Store.JanitorCron)
	assert.Equal(t, 24*time.Hour, cfg.Store.TaskTTL)
	assert.Equal(t, "en", cfg.Locale)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("GYMAI_API_URL", "https://api.gymai.test")
	t.Setenv("GYMAI_POLL_INTERVAL_MS", "500")
	t.Setenv("GYMAI_TRICKLE_INTERVAL_MS", "50")
	t.Setenv("GYMAI_TASK_TTL_HOURS", "48")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("GYMAI_LOCALE", "uk")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Tracker.PollInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.Tracker.TrickleInterval)
	assert.Equal(t, 48*time.Hour, cfg.Store.TaskTTL)
	assert.Equal(t, int64(-100200300), cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "uk", cfg.Locale)
}

func TestNewFromEnv_RequiresAPIURL(t *testing.T) {
	t.Setenv("GYMAI_API_URL", "")

	_, err := NewFromEnv()
	require.Error(t, err)
}

func TestNewFromEnv_Options(t *testing.T) {
	t.Setenv("GYMAI_API_URL", "https://api.gymai.test")

	cfg, err := NewFromEnv(func(c *Config) {
		c.Locale = "ru"
	})
	require.NoError(t, err)
	assert.Equal(t, "ru", cfg.Locale)
}
