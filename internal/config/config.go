package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Card index configuration
	Index IndexConfig `toml:"index"`

	// Card cache configuration
	Cache CacheConfig `toml:"cache"`

	// API server configuration
	Server ServerConfig `toml:"server"`

	// Monte Carlo defaults
	Simulation SimulationConfig `toml:"simulation"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// IndexConfig contains card index settings.
type IndexConfig struct {
	BaseURL string `toml:"base_url"` // Base URL serving /data/cards_index.json.gz
	Enabled bool   `toml:"enabled"`  // Enable card tagging via the index
}

// CacheConfig contains card cache settings.
type CacheConfig struct {
	Path    string `toml:"path"`    // SQLite database path ("" = <config dir>/cards.db)
	Enabled bool   `toml:"enabled"` // Enable the persistent cache
	TTL     string `toml:"ttl"`     // Staleness cutoff for pruning (e.g., "168h")
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	Host string `toml:"host"` // Bind host
	Port int    `toml:"port"` // Bind port
}

// SimulationConfig contains Monte Carlo defaults.
type SimulationConfig struct {
	Iterations int `toml:"iterations"` // Default iteration count
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			BaseURL: "",
			Enabled: true,
		},
		Cache: CacheConfig{
			Path:    "",
			Enabled: true,
			TTL:     "168h",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8585,
		},
		Simulation: SimulationConfig{
			Iterations: 1000,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deck-analyzer")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return configDir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CachePath resolves the card cache database path, defaulting to
// cards.db under the config directory.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cards.db"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}

	if c.Simulation.Iterations < 0 {
		return fmt.Errorf("simulation iterations cannot be negative: %d", c.Simulation.Iterations)
	}

	return nil
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}
