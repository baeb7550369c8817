package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN_NEW", "TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID_NEW",
		"TELEGRAM_API_BASE", "TELEGRAM_TIMEOUT", "MAX_LEADS_PER_ADDRESS", "REDIS_ADDR", "INFLIGHT_TTL",
		"BURST_RATE_PER_SEC", "BURST_SIZE",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.MaxLeadsPerAddress != 2 {
		t.Fatalf("expected default cap of 2, got %d", cfg.MaxLeadsPerAddress)
	}
	if cfg.TelegramAPIBase != "https://api.telegram.org" {
		t.Fatalf("unexpected telegram api base %s", cfg.TelegramAPIBase)
	}
	if cfg.TelegramTimeout != 10*time.Second {
		t.Fatalf("expected 10s telegram timeout, got %s", cfg.TelegramTimeout)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.InflightTTL != 30*time.Second {
		t.Fatalf("expected default inflight ttl, got %s", cfg.InflightTTL)
	}
	if cfg.BurstRatePerSec != 1 || cfg.BurstSize != 5 {
		t.Fatalf("unexpected burst defaults %v/%d", cfg.BurstRatePerSec, cfg.BurstSize)
	}
	if cfg.TelegramConfigured() {
		t.Fatalf("expected telegram to be unconfigured")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", " postgres://user@host/db ")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("TELEGRAM_API_BASE", "http://localhost:9999/")
	t.Setenv("TELEGRAM_TIMEOUT", "3s")
	t.Setenv("MAX_LEADS_PER_ADDRESS", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("BURST_RATE_PER_SEC", "0.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected trimmed db override, got %q", cfg.DatabaseURL)
	}
	if !cfg.TelegramConfigured() {
		t.Fatalf("expected telegram configured")
	}
	if cfg.TelegramAPIBase != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.TelegramAPIBase)
	}
	if cfg.TelegramTimeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.TelegramTimeout)
	}
	if cfg.MaxLeadsPerAddress != 5 {
		t.Fatalf("expected cap override, got %d", cfg.MaxLeadsPerAddress)
	}
	if !cfg.RedisTLS || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected redis overrides, got %s tls=%v", cfg.RedisAddr, cfg.RedisTLS)
	}
	if cfg.BurstRatePerSec != 0.5 {
		t.Fatalf("expected burst rate override, got %v", cfg.BurstRatePerSec)
	}
}

func TestLoadLegacyTelegramVariables(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("TELEGRAM_BOT_TOKEN_NEW", "legacy-token")
	t.Setenv("TELEGRAM_CHAT_ID_NEW", "legacy-chat")
	cfg := Load()
	if cfg.TelegramBotToken != "legacy-token" || cfg.TelegramChatID != "legacy-chat" {
		t.Fatalf("expected legacy variables to be honoured, got %q/%q", cfg.TelegramBotToken, cfg.TelegramChatID)
	}
}
