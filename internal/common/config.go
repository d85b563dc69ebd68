// Package common provides shared utilities for rfin
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for rfin
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Cache       CacheConfig   `toml:"cache"`
	Agent       AgentConfig   `toml:"agent"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the persisted market store configuration.
type StorageConfig struct {
	Path      string `toml:"path"`
	ChartPath string `toml:"chart_path"` // where rendered chart PNGs land
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Sectors SectorsConfig `toml:"sectors"`
	Store   StoreConfig   `toml:"store"`
	Holiday HolidayConfig `toml:"holiday"`
	Gemini  GeminiConfig  `toml:"gemini"`
}

// SectorsConfig holds the external market-data provider configuration.
type SectorsConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SectorsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StoreConfig holds the internal persisted-store query API configuration.
// The agent's data tools read through this API rather than the store directly.
type StoreConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *StoreConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// HolidayConfig holds the public-holiday calendar configuration.
type HolidayConfig struct {
	BaseURL       string `toml:"base_url"`
	CacheInterval string `toml:"cache_interval"`
	Timeout       string `toml:"timeout"`
}

// GetCacheInterval parses and returns the holiday cache interval
func (c *HolidayConfig) GetCacheInterval() time.Duration {
	d, err := time.ParseDuration(c.CacheInterval)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// GetTimeout parses and returns the timeout duration
func (c *HolidayConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// CacheConfig holds read-through query cache configuration.
type CacheConfig struct {
	FreshnessWindow string `toml:"freshness_window"`
}

// GetFreshnessWindow parses and returns the cache freshness window
func (c *CacheConfig) GetFreshnessWindow() time.Duration {
	d, err := time.ParseDuration(c.FreshnessWindow)
	if err != nil {
		return FreshnessQuery
	}
	return d
}

// AgentConfig holds agent orchestration configuration.
type AgentConfig struct {
	MaxToolIterations int `toml:"max_tool_iterations"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path:      "data/market",
			ChartPath: "data/charts",
		},
		Clients: ClientsConfig{
			Sectors: SectorsConfig{
				BaseURL:   "https://api.sectors.app/v1",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Store: StoreConfig{
				BaseURL: "http://localhost:8080",
				Timeout: "30s",
			},
			Holiday: HolidayConfig{
				BaseURL:       "https://api-harilibur.vercel.app",
				CacheInterval: "10m",
				Timeout:       "15s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Cache: CacheConfig{
			FreshnessWindow: "60s",
		},
		Agent: AgentConfig{
			MaxToolIterations: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RFIN_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("RFIN_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("RFIN_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("RFIN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("RFIN_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("SECTORS_API_KEY"); key != "" {
		config.Clients.Sectors.APIKey = key
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}

	if base := os.Getenv("RFIN_STORE_URL"); base != "" {
		config.Clients.Store.BaseURL = base
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
