// Package config provides configuration loading and management for the application.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Admin HTTP server port
	Port string

	// Telegram Bot API credential and base URL
	TelegramToken string
	TelegramURL   string

	// Model provider credential, base URL and model name
	// (OpenAI-compatible chat completions endpoint)
	OpenAIKey     string
	OpenAIBaseURL string
	ModelName     string

	// Base URLs for the market data providers
	DexScreenerURL string
	CoinGeckoURL   string

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	// Timeouts and limits
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	MaxChats       int
	SendRateLimit  float64
	SendBurst      int

	// SQLite database path for the durable query log
	DatabasePath string
}

// Load creates a new Config from environment variables.
func Load() Config {
	return Config{
		Port:           GetEnvOrDefault("PORT", "3000"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramURL:    GetEnvOrDefault("TELEGRAM_API_URL", "https://api.telegram.org"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  GetEnvOrDefault("OPENAI_BASE_URL", ""),
		ModelName:      GetEnvOrDefault("MODEL_NAME", "gpt-4o-mini"),
		DexScreenerURL: GetEnvOrDefault("DEXSCREENER_URL", "https://api.dexscreener.com"),
		CoinGeckoURL:   GetEnvOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		OtelEndpoint:   GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		RequestTimeout: GetEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		CacheTTL:       GetEnvAsDuration("CACHE_TTL", 10*time.Minute),
		MaxChats:       GetEnvAsInt("MAX_CHATS", 1000),
		SendRateLimit:  GetEnvAsFloat("SEND_RATE_LIMIT", 25.0),
		SendBurst:      GetEnvAsInt("SEND_BURST", 5),
		DatabasePath:   GetEnvOrDefault("DATABASE_PATH", "data/querylog.db"),
	}
}

// GetEnv retrieves an environment variable and whether it exists.
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set.
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value.
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value.
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value.
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
