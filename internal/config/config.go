// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigin string

	// Places/Geocoding collaborator (Nominatim-compatible).
	NominatimURL    string
	HTTPUserAgent   string
	OutboundTimeout time.Duration

	// Suggestion collaborator. Empty GenAIKey runs the assistant offline.
	GenAIKey   string
	GenAIModel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present (never required).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            envInt("PORT", 8080),
		DBPath:          envOr("DB_PATH", "./data/outings.db"),
		JWTSecret:       envOr("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:          envDuration("JWT_TTL", 24*time.Hour),
		CORSOrigin:      envOr("CORS_ORIGIN", "*"),
		NominatimURL:    envOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		HTTPUserAgent:   envOr("HTTP_USER_AGENT", "plan-my-outings"),
		OutboundTimeout: envDuration("OUTBOUND_TIMEOUT", 10*time.Second),
		GenAIKey:        os.Getenv("GEMINI_API_KEY"),
		GenAIModel:      envOr("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
