package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all service settings, loaded from environment variables.
type Config struct {
	Port           string
	RedisAddr      string
	FrontendURL    string
	JWTSecret      string
	CallLinkTTL    time.Duration
	RoomTokenTTL   time.Duration
	STUNServers    []string
	TURNURL        string
	TURNUsername   string
	TURNPassword   string
	AllowedOrigins []string
}

// Load reads configuration from the environment, falling back to development
// defaults.
func Load() *Config {
	return &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "your-secret-key"),
		CallLinkTTL:  getDurationOrDefault("CALL_LINK_TTL", 24*time.Hour),
		RoomTokenTTL: getDurationOrDefault("ROOM_TOKEN_TTL", 24*time.Hour),
		STUNServers: getListOrDefault("STUN_SERVERS", []string{
			"stun:stun.l.google.com:19302",
			"stun:stun1.l.google.com:19302",
		}),
		TURNURL:        os.Getenv("TURN_URL"),
		TURNUsername:   os.Getenv("TURN_USERNAME"),
		TURNPassword:   os.Getenv("TURN_PASSWORD"),
		AllowedOrigins: getListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
