// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A '.env' file in the
working directory is loaded first when present (via 'joho/godotenv'); real
environment variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, S3, Mail) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported ephemeral session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Supported notification providers.
const (
	MailProviderLog    = "log"
	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
)

// # Configuration Schema

// Config holds all runtime configuration for the Priotama API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Required when sessions live in Redis.
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic keys for session and identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (Cloudflare R2 / S3-compatible) for profile pictures
	S3 S3Config `envPrefix:"S3_"`

	// Notification channel used for OTP delivery
	Mail MailConfig `envPrefix:"MAIL_"`

	// Onboarding state machine tuning
	Onboarding OnboardingConfig

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// S3Config describes the asset host.
type S3Config struct {
	Bucket    string `env:"BUCKET,required"`
	Region    string `env:"REGION"     envDefault:"auto"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	// PublicURL is the base URL objects are served from (CDN or bucket domain).
	PublicURL string `env:"PUBLIC_URL,required"`
	// KeyPrefix groups profile pictures inside the bucket.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"priotama/profile-pics"`
}

// MailConfig selects and configures the OTP notification channel.
type MailConfig struct {
	Provider string `env:"PROVIDER" envDefault:"log"`
	From     string `env:"FROM"     envDefault:"no-reply@priotama.app"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
}

// OnboardingConfig holds the TTLs of the ephemeral sessions.
type OnboardingConfig struct {
	SessionBackend  string        `env:"SESSION_BACKEND"        envDefault:"redis"`
	RegistrationTTL time.Duration `env:"REGISTRATION_TTL"       envDefault:"10m"`
	ResetTTL        time.Duration `env:"RESET_TTL"              envDefault:"5m"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"        envDefault:"15m"`
	SweepInterval   time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.Onboarding.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Onboarding.SessionBackend)
	}

	switch c.Mail.Provider {
	case MailProviderLog:
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("config: MAIL_SMTP_HOST is required for the smtp provider")
		}
	case MailProviderResend:
		if c.Mail.ResendAPIKey == "" {
			return fmt.Errorf("config: MAIL_RESEND_API_KEY is required for the resend provider")
		}
	default:
		return fmt.Errorf("config: unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
