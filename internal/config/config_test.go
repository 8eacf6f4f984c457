package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero cache size", func(c *Config) { c.Cache.Size = 0 }},
		{"zero queue size", func(c *Config) { c.Cache.QueueSize = 0 }},
		{"sheet enabled without url", func(c *Config) { c.Sheet.Enabled = true }},
		{"sheet interval too short", func(c *Config) {
			c.Sheet.Enabled = true
			c.Sheet.URL = "https://example.com/sheet"
			c.Sheet.SyncInterval = 100 * time.Millisecond
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Sheet.Enabled = true
	cfg.Sheet.URL = "https://example.com/sheet"
	cfg.Sheet.SyncInterval = 30 * time.Second
	cfg.Log.Level = "debug"

	require.NoError(t, SaveToFile(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, loaded.Server.Port)
	assert.True(t, loaded.Sheet.Enabled)
	assert.Equal(t, 30*time.Second, loaded.Sheet.SyncInterval)
	assert.Equal(t, "debug", loaded.Log.Level)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, "dinecat.db", loaded.Database.Path)
	assert.Equal(t, 4096, loaded.Cache.Size)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
