// Package config loads the onboarding service settings from a YAML file,
// optional .env files and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/gartstein/onboarding/internal/onboarding/db"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of cmd/onboarding.
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT" env:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT" env:"HTTP_PORT"`

	DBDriver     string `yaml:"DB_DRIVER" env:"DB_DRIVER"`
	DBHost       string `yaml:"DB_HOST" env:"DB_HOST"`
	DBPort       int    `yaml:"DB_PORT" env:"DB_PORT"`
	DBUser       string `yaml:"DB_USER" env:"DB_USER"`
	DBPassword   string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBName       string `yaml:"DB_NAME" env:"DB_NAME"`
	DBSSLMode    string `yaml:"DB_SSLMODE" env:"DB_SSLMODE"`
	DBPath       string `yaml:"DB_PATH" env:"DB_PATH"`
	DBMaxRetries uint64 `yaml:"DB_MAX_RETRIES" env:"DB_MAX_RETRIES"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS" env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string   `yaml:"TOPIC" env:"TOPIC"`

	JWTSecret string `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	// SeedRoles are created at startup when missing. Approval needs "admin".
	SeedRoles []string `yaml:"SEED_ROLES" env:"SEED_ROLES" envSeparator:","`
	LogLevel  string   `yaml:"LOG_LEVEL" env:"LOG_LEVEL"`
}

// Default returns the settings used when neither the file nor the
// environment provides a value.
func Default() *Config {
	return &Config{
		GRPCPort:     50051,
		HTTPPort:     8080,
		DBDriver:     db.DriverPostgres,
		DBHost:       "localhost",
		DBPort:       5432,
		DBUser:       "postgres",
		DBName:       "onboarding",
		DBSSLMode:    "disable",
		DBPath:       "onboarding.db",
		DBMaxRetries: 5,
		Topic:        "onboarding-events",
		SeedRoles:    []string{"admin"},
		LogLevel:     "info",
	}
}

// Load reads path (skipped when empty or missing), then the envFiles that
// exist, then the environment. Variables already set in the environment
// win over .env files.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the envFiles that exist and reports how many were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// Database builds the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		DBName:     c.DBName,
		SSLMode:    c.DBSSLMode,
		Path:       c.DBPath,
		MaxRetries: c.DBMaxRetries,
	}
}
