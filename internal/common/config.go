// Package common provides shared utilities for StockGraph
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for StockGraph
type Config struct {
	Environment string            `toml:"environment"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Clients     ClientsConfig     `toml:"clients"`
	Correlation CorrelationConfig `toml:"correlation"`
	Logging     LoggingConfig     `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds blob store configuration.
// Driver is "file" (JSON files on disk) or "badger" (embedded BadgerHold KV).
type StorageConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MarketData MarketDataConfig `toml:"marketdata"`
	Gemini     GeminiConfig     `toml:"gemini"`
}

// MarketDataConfig holds price-history provider configuration
type MarketDataConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the per-request timeout duration
func (c *MarketDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 8 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// CorrelationConfig holds the correlation engine and cache tuning parameters.
// Tickers is the default stock universe used when a request supplies none.
type CorrelationConfig struct {
	Tickers      []string `toml:"tickers"`
	LookbackDays int      `toml:"lookback_days"`
	Threshold    float64  `toml:"threshold"`
	MaxAge       string   `toml:"max_age"`
}

// GetMaxAge parses and returns the cache freshness window
func (c *CorrelationConfig) GetMaxAge() time.Duration {
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil {
		return FreshnessCorrelations
	}
	return d
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
			Driver: "file",
			Path:   "data",
		},
		Clients: ClientsConfig{
			MarketData: MarketDataConfig{
				BaseURL:   "https://api.marketdata.example.com",
				RateLimit: 10,
				Timeout:   "8s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Correlation: CorrelationConfig{
			Tickers:      []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"},
			LookbackDays: 60,
			Threshold:    0.6,
			MaxAge:       "24h",
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

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKGRAPH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKGRAPH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKGRAPH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKGRAPH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("STOCKGRAPH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("STOCKGRAPH_MARKETDATA_API_KEY"); key != "" {
		config.Clients.MarketData.APIKey = key
	}
	if key := os.Getenv("MARKETDATA_API_KEY"); key != "" && config.Clients.MarketData.APIKey == "" {
		config.Clients.MarketData.APIKey = key
	}

	if key := os.Getenv("STOCKGRAPH_GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.Clients.Gemini.APIKey == "" {
		config.Clients.Gemini.APIKey = key
	}

	if tickers := os.Getenv("STOCKGRAPH_TICKERS"); tickers != "" {
		parts := strings.Split(tickers, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
				cleaned = append(cleaned, t)
			}
		}
		if len(cleaned) > 0 {
			config.Correlation.Tickers = cleaned
		}
	}
}

// validate checks cross-field constraints that would otherwise fail at runtime.
func validate(config *Config) error {
	driver := strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	if driver != "file" && driver != "badger" {
		return fmt.Errorf("unknown storage driver %q (expected \"file\" or \"badger\")", config.Storage.Driver)
	}
	config.Storage.Driver = driver

	if config.Correlation.Threshold < -1 || config.Correlation.Threshold > 1 {
		return fmt.Errorf("correlation threshold %.2f out of range [-1, 1]", config.Correlation.Threshold)
	}
	if config.Correlation.LookbackDays <= 0 {
		config.Correlation.LookbackDays = 60
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
