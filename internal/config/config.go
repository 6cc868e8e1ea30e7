package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	AppName        string
	Environment    string
	Port           string
	BaseURL        string
	APIPrefix      string
	FrontendURL    string
	AllowedOrigins []string

	// Auth
	JWTSecret          string
	AccessTokenExpires time.Duration

	// Database
	DatabaseURL string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	// Supabase storage; uploads go to UploadFolder when SupabaseURL is empty
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	UploadFolder          string
	MaxContentLength      int64

	// Redis, used for webhook de-duplication when set
	RedisURL string

	DisplayTimezone string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "Printer API"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		Port:           getEnv("PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		FrontendURL:    strings.TrimSuffix(getEnv("FRONTEND_URL", ""), "/"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTokenExpires: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute,

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "cny"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "print-uploads"),
		UploadFolder:          getEnv("UPLOAD_FOLDER", "uploads"),
		MaxContentLength:      int64(getEnvInt("MAX_CONTENT_LENGTH", 16*1024*1024)),

		RedisURL: getEnv("REDIS_URL", ""),

		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "Australia/Sydney"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURLFromParts()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or POSTGRES_* settings are required")
	}
	if c.FrontendURL == "" {
		return fmt.Errorf("FRONTEND_URL is required")
	}
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.SupabaseURL != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required when SUPABASE_URL is set")
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive")
	}
	return nil
}

// Location returns the display timezone, falling back to UTC when the name
// is unknown to the system tz database.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		slog.Warn("unknown display timezone, using UTC", "timezone", c.DisplayTimezone, "error", err)
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func postgresURLFromParts() string {
	user := getEnv("POSTGRES_USER", "")
	host := getEnv("POSTGRES_HOST", "")
	db := getEnv("POSTGRES_DB", "")
	if user == "" || host == "" || db == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, getEnv("POSTGRES_PASSWORD", "")),
		Host:     host + ":" + getEnv("POSTGRES_PORT", "5432"),
		Path:     db,
		RawQuery: "sslmode=" + getEnv("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring non-numeric setting", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
