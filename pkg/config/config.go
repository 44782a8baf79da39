package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for catalog-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the database password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Neighbor recomputation job configuration
	Neighbors NeighborsConfig `yaml:"neighbors"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"catalog"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"catalog_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// NeighborsConfig holds settings for the table-neighbor refresh job.
type NeighborsConfig struct {
	// Workers is the number of source tables scored concurrently during a
	// full refresh. 1 serializes the batch.
	Workers int `yaml:"workers" env:"NEIGHBORS_WORKERS" env-default:"4"`

	// TopN caps the "related tables" read surface.
	TopN int `yaml:"top_n" env:"NEIGHBORS_TOP_N" env-default:"20"`

	// RefreshIntervalHours enables the periodic full recompute when > 0.
	// 0 disables the scheduler; refreshes then only run via the admin endpoint.
	RefreshIntervalHours int `yaml:"refresh_interval_hours" env:"NEIGHBORS_REFRESH_INTERVAL_HOURS" env-default:"0"`

	// JobTimeoutMinutes bounds a single full refresh. The candidate universe
	// grows without bound, so a runaway batch is abandoned rather than left
	// holding connections.
	JobTimeoutMinutes int `yaml:"job_timeout_minutes" env:"NEIGHBORS_JOB_TIMEOUT_MINUTES" env-default:"60"`
}

// RefreshInterval returns the scheduler interval, or 0 if the scheduler is disabled.
func (c *NeighborsConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// JobTimeout returns the per-batch timeout.
func (c *NeighborsConfig) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutMinutes) * time.Minute
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Neighbors.Workers < 1 {
		return fmt.Errorf("neighbors.workers must be >= 1, got %d", c.Neighbors.Workers)
	}
	if c.Neighbors.TopN < 1 {
		return fmt.Errorf("neighbors.top_n must be >= 1, got %d", c.Neighbors.TopN)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
