package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:8000")
	t.Setenv("ITEMSTORE_BACKEND", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "memory", cfg.ItemStoreBackend)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_BASE_URL=http://from-file\nKAFKA_BROKERS=k1:9092,k2:9092\n"), 0o600))

	t.Setenv("API_BASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	require.NoError(t, os.Unsetenv("API_BASE_URL"))
	require.NoError(t, os.Unsetenv("KAFKA_BROKERS"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file", cfg.APIBaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestValidate_Backends(t *testing.T) {
	base := Config{APIBaseURL: "http://api"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory", mutate: func(c *Config) { c.ItemStoreBackend = "memory" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.ItemStoreBackend = "postgres" }, wantErr: true},
		{name: "sqlite with dsn", mutate: func(c *Config) { c.ItemStoreBackend = "sqlite"; c.DatabaseURL = "file:items.db" }},
		{name: "redis without url", mutate: func(c *Config) { c.ItemStoreBackend = "redis" }, wantErr: true},
		{name: "unknown", mutate: func(c *Config) { c.ItemStoreBackend = "etcd" }, wantErr: true},
	}

	for _, tt := range tests {
		cfg := base
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.wantErr {
			assert.Error(t, err, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}
