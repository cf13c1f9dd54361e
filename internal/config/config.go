// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is loaded
// first when present, so local development matches production wiring.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (Next.js dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GeminiAPIKey authenticates calls to the Gemini API. Required.
	GeminiAPIKey string

	// GeminiModel selects the generation tier. Defaults to
	// "gemini-2.5-pro"; set "gemini-2.5-flash" for the cheaper tier.
	GeminiModel string

	// GenerateMaxRetries bounds retries of the upstream streaming call on
	// overload/rate-limit errors. Defaults to 3.
	GenerateMaxRetries int

	// UnsplashAccessKey authenticates image search. Optional; when empty,
	// image enrichment is disabled entirely.
	UnsplashAccessKey string

	// OpenWeatherAPIKey authenticates weather lookups. Optional; when
	// empty, weather enrichment is disabled entirely.
	OpenWeatherAPIKey string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// JWTTTL is the session token lifetime. Defaults to 168h (7 days).
	JWTTTL time.Duration

	// SMTP settings for the verification-code mailer. All optional; when
	// incomplete, new accounts are verified immediately with a warning.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailName    string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		GenerateMaxRetries: getIntEnv("GENERATE_MAX_RETRIES", 3),
		UnsplashAccessKey:  os.Getenv("UNSPLASH_ACCESS_KEY"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		JWTTTL:             getDurationEnv("JWT_TTL", 168*time.Hour),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		EmailFrom:          os.Getenv("EMAIL_FROM"),
		EmailName:          getEnv("EMAIL_FROM_NAME", "TripWeaver"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// MailConfigured reports whether the SMTP mailer has enough configuration
// to send verification codes.
func (c Config) MailConfigured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getIntEnv parses an integer environment variable, falling back on
// absence or parse failure.
func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getDurationEnv parses a time.Duration environment variable (e.g. "24h"),
// falling back on absence or parse failure.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
