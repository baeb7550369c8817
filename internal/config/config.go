package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DatabaseURL is optional. When empty leads are neither counted nor stored.
	DatabaseURL string

	// Telegram operator channel. Both values are required to accept leads.
	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIBase  string
	TelegramTimeout  time.Duration

	MaxLeadsPerAddress int

	// Redis backs the in-flight address guard. Empty address disables it.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	InflightTTL   time.Duration

	// Per-address burst throttle for the standalone API server.
	BurstRatePerSec float64
	BurstSize       int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: strings.TrimSpace(getEnv("DATABASE_URL", "")),

		TelegramBotToken: strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", getEnv("TELEGRAM_BOT_TOKEN_NEW", ""))),
		TelegramChatID:   strings.TrimSpace(getEnv("TELEGRAM_CHAT_ID", getEnv("TELEGRAM_CHAT_ID_NEW", ""))),
		TelegramAPIBase:  strings.TrimRight(getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"), "/"),
		TelegramTimeout:  getEnvAsDuration("TELEGRAM_TIMEOUT", 10*time.Second),

		MaxLeadsPerAddress: getEnvAsInt("MAX_LEADS_PER_ADDRESS", 2),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		InflightTTL:   getEnvAsDuration("INFLIGHT_TTL", 30*time.Second),

		BurstRatePerSec: getEnvAsFloat("BURST_RATE_PER_SEC", 1),
		BurstSize:       getEnvAsInt("BURST_SIZE", 5),
	}
}

// TelegramConfigured reports whether both operator channel credentials are present.
func (c *Config) TelegramConfigured() bool {
	return c != nil && c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
