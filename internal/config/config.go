// Package config loads the server settings from the environment (and an
// optional .env file) into an explicit Config value that is handed to every
// component at construction.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

// Config holds runtime settings for the server.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"DATABASE_URL" envDefault:"vrdaw.db"`

	JWTSecret  string `env:"JWT_SECRET_KEY" envDefault:"dev-secret-key"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	BlobBackend   string `env:"BLOB_BACKEND" envDefault:"local"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`

	S3Bucket    string `env:"S3_BUCKET" envDefault:"vrdaw"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	SlackWebhookURL   string `env:"SLACK_WEBHOOK_URL"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment into a Config and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.BlobBackend = strings.ToLower(strings.TrimSpace(cfg.BlobBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}

	switch c.BlobBackend {
	case BlobBackendLocal, BlobBackendS3:
	default:
		return fmt.Errorf("unsupported BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY must not be empty")
	}

	if c.BlobBackend == BlobBackendS3 && c.S3Bucket == "" {
		return errors.New("S3_BUCKET is required for the s3 blob backend")
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
