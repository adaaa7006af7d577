package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	UpstreamAPIURL string
	JWTSecret      string
	IsDemo         bool
	AllowedOrigins []string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		UpstreamAPIURL: getEnv("UPSTREAM_API_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		IsDemo:         getEnv("DEMO_MODE", "false") == "true",
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
	}

	if cfg.UpstreamAPIURL == "" {
		log.Fatal("UPSTREAM_API_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
