// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache and editor sessions)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible archive of exported cards (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// ArchiveDir archives exports on local disk when S3 is not configured.
	ArchiveDir string

	// TemplatesFallbackFile is the local JSON copy of the template store,
	// used when Postgres is unavailable.
	TemplatesFallbackFile string

	// Export pipeline
	ExportScale        int
	CardCacheTTL       time.Duration
	RemoteImageTimeout time.Duration
	ExportRateLimit    int // exports per client per minute, 0 disables

	// RemoteImageAllowPrivate lets remote photos, logos and backgrounds be
	// fetched from loopback and private addresses.
	RemoteImageAllowPrivate bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a numeric value does not parse.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "idcards"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "idcards"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "idcards-exports"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		ArchiveDir:            os.Getenv("ARCHIVE_DIR"),
		TemplatesFallbackFile: envOrDefault("TEMPLATES_FALLBACK_FILE", "data/templates.json"),
	}

	var err error
	if cfg.ExportScale, err = envInt("EXPORT_SCALE", 3); err != nil {
		return nil, err
	}
	if cfg.ExportScale < 1 || cfg.ExportScale > 6 {
		return nil, fmt.Errorf("EXPORT_SCALE must be between 1 and 6, got %d", cfg.ExportScale)
	}
	if cfg.CardCacheTTL, err = envDuration("CARD_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RemoteImageTimeout, err = envDuration("REMOTE_IMAGE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ExportRateLimit, err = envInt("EXPORT_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.RemoteImageAllowPrivate, err = envBool("REMOTE_IMAGE_ALLOW_PRIVATE", false); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt reads an integer environment variable.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// envBool reads a boolean ("true", "0", ...) from the environment.
func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

// envDuration reads a Go duration ("90s", "15m") from the environment.
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
