package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected default redis addr, got %s", cfg.RedisAddr)
	}
	if len(cfg.STUNServers) == 0 {
		t.Error("Expected default STUN servers")
	}
	if cfg.CallLinkTTL != 24*time.Hour {
		t.Errorf("Expected 24h call link TTL, got %v", cfg.CallLinkTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STUN_SERVERS", "stun:example.org:3478, stun:backup.example.org:3478")
	t.Setenv("CALL_LINK_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.org")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.STUNServers) != 2 || cfg.STUNServers[0] != "stun:example.org:3478" {
		t.Errorf("Unexpected STUN servers: %v", cfg.STUNServers)
	}
	if cfg.CallLinkTTL != 30*time.Minute {
		t.Errorf("Expected 30m TTL, got %v", cfg.CallLinkTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.org" {
		t.Errorf("Unexpected allowed origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("CALL_LINK_TTL", "soon")

	cfg := Load()
	if cfg.CallLinkTTL != 24*time.Hour {
		t.Errorf("Expected fallback TTL, got %v", cfg.CallLinkTTL)
	}
}
