package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultJWTSecret = "supersecretkey"
)

type Config struct {
	Addr           string         `yaml:"addr"`
	JWTSecret      string         `yaml:"jwt_secret"`
	APITimeout     time.Duration  `yaml:"timeout"`
	TokenDuration  time.Duration  `yaml:"token_duration"`
	MigrateOnStart bool           `yaml:"migrate_on_start"`
	Database       DatabaseConfig `yaml:"database"`
	Jobs           JobsConfig     `yaml:"jobs"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	// Path is the sqlite file (or DSN) used when Driver is sqlite.
	Path string `yaml:"path"`
	// DSN is the postgres connection string used when Driver is postgres.
	DSN string `yaml:"dsn"`
}

type JobsConfig struct {
	Workers     int    `yaml:"workers"`
	MaxAttempts int    `yaml:"max_attempts"`
	SweepSpec   string `yaml:"sweep_spec"`
}

// LoadConfig builds a Config from defaults, environment variables (a .env file
// in the working directory is loaded first when present) and, if path is not
// empty, the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	workers, err := getEnvInt("OPPBOARD_WORKERS", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:           getEnv("OPPBOARD_ADDR", ":8080"),
		JWTSecret:      getEnv("OPPBOARD_JWT_SECRET", defaultJWTSecret),
		APITimeout:     15 * time.Second,
		TokenDuration:  24 * time.Hour,
		MigrateOnStart: getEnv("OPPBOARD_MIGRATE_ON_START", "true") == "true",
		Database: DatabaseConfig{
			Driver: getEnv("OPPBOARD_DB_DRIVER", DriverSQLite),
			Path:   getEnv("OPPBOARD_DATABASE_PATH", "oppboard.db"),
			DSN:    os.Getenv("OPPBOARD_DATABASE_DSN"),
		},
		Jobs: JobsConfig{
			Workers:     workers,
			MaxAttempts: 5,
			SweepSpec:   getEnv("OPPBOARD_SWEEP_SPEC", "@every 1h"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == defaultJWTSecret && os.Getenv("OPPBOARD_ENV") != "development" {
		return errors.New("jwt_secret uses the built-in default; set OPPBOARD_JWT_SECRET or OPPBOARD_ENV=development")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 24 * time.Hour
	}

	switch c.Database.Driver {
	case "", DriverSQLite:
		c.Database.Driver = DriverSQLite
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	if c.Jobs.Workers < 0 {
		return fmt.Errorf("jobs.workers must not be negative, got %d", c.Jobs.Workers)
	}
	if c.Jobs.Workers == 0 {
		c.Jobs.Workers = 2
	}
	if c.Jobs.MaxAttempts <= 0 {
		c.Jobs.MaxAttempts = 5
	}
	if c.Jobs.SweepSpec != "" {
		if _, err := cron.ParseStandard(c.Jobs.SweepSpec); err != nil {
			return fmt.Errorf("invalid jobs.sweep_spec: %w", err)
		}
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
