package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration, used for rate limiting only
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Recipe images: S3 when S3Bucket is set, else MediaDir served under MediaURL
	S3Bucket  string
	AWSRegion string
	MediaDir  string
	MediaURL  string

	// TrueType font for PDF shopping lists; empty uses the embedded DejaVu Sans
	PDFFontPath string

	// Recipe creations allowed per user per hour; 0 disables the limiter
	RecipeCreateLimit int

	LogLevel  string
	LogFormat string
}

func defaults() *Config {
	return &Config{
		ServerPort:        "8080",
		ServerHost:        "0.0.0.0",
		CORSOrigins:       []string{"http://localhost:3000"},
		DBDriver:          "postgres",
		DBPort:            "5432",
		DBSSLMode:         "disable",
		SQLitePath:        "foodgram.db",
		MediaDir:          "media",
		MediaURL:          "/media/",
		RecipeCreateLimit: 0,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults()

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Load sensitive values based on environment
	switch env {
	case CI:
		// CI passes secrets as plain environment variables
	case Development, Test:
		loadSecrets(cfg, false)
	case Production:
		loadSecrets(cfg, true)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")

	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")

	setString(&cfg.JWTSecret, "JWT_SECRET")

	setString(&cfg.S3Bucket, "S3_BUCKET_NAME")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.MediaDir, "MEDIA_DIR")
	setString(&cfg.MediaURL, "MEDIA_URL")
	setString(&cfg.PDFFontPath, "PDF_FONT_PATH")

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("RECIPE_CREATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("RECIPE_CREATE_LIMIT must be a non-negative integer, got %q", v)
		}
		cfg.RecipeCreateLimit = n
	}

	return nil
}

// loadSecrets overlays Docker secrets. In production every secret file
// wins over the environment; elsewhere a missing file is skipped.
func loadSecrets(cfg *Config, override bool) {
	secrets := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	}
	for name, dst := range secrets {
		value := readSecret(name)
		if value == "" {
			continue
		}
		if override || *dst == "" {
			*dst = value
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
