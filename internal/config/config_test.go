package config

import (
	"os"
	"testing"
	"time"
)

// unsetenv clears a variable for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "PORT", "TELEGRAM_API_URL", "MODEL_NAME", "CACHE_TTL", "MAX_CHATS", "DATABASE_PATH")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("Expected default port 3000, got %s", cfg.Port)
	}
	if cfg.TelegramURL != "https://api.telegram.org" {
		t.Errorf("Expected default Telegram URL, got %s", cfg.TelegramURL)
	}
	if cfg.ModelName != "gpt-4o-mini" {
		t.Errorf("Expected default model name gpt-4o-mini, got %s", cfg.ModelName)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("Expected default cache TTL 10m, got %s", cfg.CacheTTL)
	}
	if cfg.MaxChats != 1000 {
		t.Errorf("Expected default max chats 1000, got %d", cfg.MaxChats)
	}
	if cfg.DatabasePath != "data/querylog.db" {
		t.Errorf("Expected default database path, got %s", cfg.DatabasePath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TELEGRAM_BOT_TOKEN", "abc:def")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("MAX_CHATS", "250")
	t.Setenv("SEND_RATE_LIMIT", "12.5")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.TelegramToken != "abc:def" {
		t.Errorf("Expected token from environment, got %s", cfg.TelegramToken)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected cache TTL 5m, got %s", cfg.CacheTTL)
	}
	if cfg.MaxChats != 250 {
		t.Errorf("Expected max chats 250, got %d", cfg.MaxChats)
	}
	if cfg.SendRateLimit != 12.5 {
		t.Errorf("Expected send rate 12.5, got %f", cfg.SendRateLimit)
	}
}

func TestGetEnvAsIntInvalidFallsBack(t *testing.T) {
	t.Setenv("MAX_CHATS", "not-a-number")

	if got := GetEnvAsInt("MAX_CHATS", 1000); got != 1000 {
		t.Errorf("Expected fallback 1000 for invalid value, got %d", got)
	}
}

func TestGetEnvAsDurationInvalidFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	if got := GetEnvAsDuration("CACHE_TTL", 10*time.Minute); got != 10*time.Minute {
		t.Errorf("Expected fallback 10m for invalid value, got %s", got)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TELEGRAM_API_URL", "http://localhost:9000")

	if got := GetEnvOrDefault("TELEGRAM_API_URL", "https://api.telegram.org"); got != "http://localhost:9000" {
		t.Errorf("Expected environment value, got %s", got)
	}
	if got := GetEnvOrDefault("UNSET_CONFIG_KEY", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for unset key, got %s", got)
	}
}
