package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	t.Chdir(dir)
}

func TestLoad(t *testing.T) {
	writeConfigFile(t, `
bind_addr: "0.0.0.0"
port: "9090"
env: "staging"
database:
  host: "db.internal"
  port: 5433
  user: "catalog"
  database: "catalog_engine"
neighbors:
  workers: 8
  top_n: 10
  refresh_interval_hours: 24
  job_timeout_minutes: 30
`)

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 8, cfg.Neighbors.Workers)
	assert.Equal(t, 10, cfg.Neighbors.TopN)
	assert.Equal(t, 24, cfg.Neighbors.RefreshIntervalHours)
	assert.Equal(t, 30, cfg.Neighbors.JobTimeoutMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	writeConfigFile(t, `
port: "8080"
neighbors:
  workers: 4
  top_n: 20
`)
	t.Setenv("PORT", "7070")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("NEIGHBORS_WORKERS", "2")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 2, cfg.Neighbors.Workers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	writeConfigFile(t, `
neighbors:
  workers: 0
  top_n: 20
`)

	_, err := Load("dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neighbors.workers")
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("dev")
	assert.Error(t, err)
}

func TestNeighborsConfigDurations(t *testing.T) {
	cfg := NeighborsConfig{RefreshIntervalHours: 6, JobTimeoutMinutes: 45}
	assert.Equal(t, "6h0m0s", cfg.RefreshInterval().String())
	assert.Equal(t, "45m0s", cfg.JobTimeout().String())

	disabled := NeighborsConfig{}
	assert.Zero(t, disabled.RefreshInterval())
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "catalog",
		Password: "pw", Database: "catalog_engine", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=catalog password=pw dbname=catalog_engine sslmode=disable",
		db.ConnectionString())
}
