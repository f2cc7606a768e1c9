package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Log LogConfig

	Booking BookingConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type LogConfig struct {
	Level  string
	Format string // text | json
}

type BookingConfig struct {
	// Reference prefixes. Tokens after the prefix are base-36 millisecond timestamps.
	BookingRefPrefix string
	PaymentRefPrefix string

	MaxPerPage int
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "hostelbooking"),
			User:     env("DB_USER", "hostelbooking"),
			Password: env("DB_PASSWORD", "hostelbooking"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: strings.ToLower(env("LOG_FORMAT", "text")),
		},
		Booking: BookingConfig{
			BookingRefPrefix: env("BOOKING_REF_PREFIX", "BK-"),
			PaymentRefPrefix: env("PAYMENT_REF_PREFIX", "PM-"),
			MaxPerPage:       envInt("API_MAX_PER_PAGE", 200),
		},
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
