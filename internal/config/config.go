// Package config loads, validates and persists the service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Sheet    SheetConfig    `yaml:"sheet" mapstructure:"sheet"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// DatabaseConfig holds the sqlite store settings.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig holds the in-process cache settings.
type CacheConfig struct {
	// Size is the maximum number of cached entries.
	Size int `yaml:"size" mapstructure:"size"`
	// QueueSize is the buffer of the deferred invalidation queue.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
}

// SheetConfig holds the reconciliation feed settings.
type SheetConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	URL          string        `yaml:"url" mapstructure:"url"`
	APIKey       string        `yaml:"api_key" mapstructure:"api_key"`
	SyncInterval time.Duration `yaml:"sync_interval" mapstructure:"sync_interval"`
}

// LogConfig holds logging settings, including file rotation.
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`
	Level      string `yaml:"level" mapstructure:"level"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // number of old files
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// DefaultConfig returns the configuration used when a section is absent from
// the config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "dinecat.db",
		},
		Cache: CacheConfig{
			Size:      4096,
			QueueSize: 256,
		},
		Sheet: SheetConfig{
			Enabled:      false,
			SyncInterval: 15 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    5,
			MaxBackups: 5,
			MaxAge:     14,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("cache size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.QueueSize < 1 {
		return fmt.Errorf("cache queue size must be positive, got %d", c.Cache.QueueSize)
	}
	if c.Sheet.Enabled {
		if c.Sheet.URL == "" {
			return fmt.Errorf("sheet url is required when sheet sync is enabled")
		}
		if c.Sheet.SyncInterval < time.Second {
			return fmt.Errorf("sheet sync interval must be at least 1s, got %s", c.Sheet.SyncInterval)
		}
	}
	return nil
}

// LoadConfig loads configuration from file and merges with defaults
func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil, fmt.Errorf("no configuration file found. Please create config.yaml or use --config flag")
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// SaveToFile writes the configuration as YAML, creating the directory if
// needed. Used by the setup command to emit a starter config.
func SaveToFile(config *Config, filename string) error {
	if filename == "" {
		return fmt.Errorf("no config file path provided")
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
