// Package config holds runtime settings for the publishing client.
// Values come from the environment (optionally seeded from a .env file),
// following 12-factor principles.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Identity provider (GoTrue-compatible REST endpoint)
	AuthBaseURL string `env:"NANNURU_AUTH_URL" envDefault:"http://localhost:9999/auth/v1"`
	AuthAnonKey string `env:"NANNURU_AUTH_ANON_KEY" envDefault:""`

	// Article table + profiles (PostgreSQL)
	DatabaseURL string `env:"NANNURU_DATABASE_URL" envDefault:"postgres://localhost:5432/nannuru"`

	// AutoMigrate provisions the backing tables on startup. Development only.
	AutoMigrate bool `env:"NANNURU_AUTO_MIGRATE" envDefault:"false"`

	// Object storage (S3-compatible) for article images
	S3Endpoint      string `env:"NANNURU_S3_ENDPOINT" envDefault:"http://localhost:9000"`
	S3Region        string `env:"NANNURU_S3_REGION" envDefault:"us-east-1"`
	S3Bucket        string `env:"NANNURU_S3_BUCKET" envDefault:"article-images"`
	S3AccessKey     string `env:"NANNURU_S3_ACCESS_KEY" envDefault:""`
	S3SecretKey     string `env:"NANNURU_S3_SECRET_KEY" envDefault:""`
	S3PublicBaseURL string `env:"NANNURU_S3_PUBLIC_URL" envDefault:""`

	// Client-local storage (drafts, known accounts)
	LocalDBPath string `env:"NANNURU_LOCAL_DB" envDefault:"nannuru.db"`

	// Logging
	LogLevel  string `env:"NANNURU_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"NANNURU_LOG_FORMAT" envDefault:"text"`
}

// Load reads a .env file when present, then overlays real environment
// variables on top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
