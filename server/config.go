package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration. Credentials for the Zoom API are
// deliberately not here: they live in the store and are managed through the
// /api/zoom endpoints.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"postgres://postgres:postgres@db:5432/pmportal?sslmode=disable"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.example.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"pm@cloudwarriors.com"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"./storage"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be a valid port, got %d", c.SMTPPort)
	}
	if c.EmailFrom == "" {
		return fmt.Errorf("EMAIL_FROM is required")
	}
	if c.StoragePath == "" {
		return fmt.Errorf("STORAGE_PATH is required")
	}
	return nil
}
