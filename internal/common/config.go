// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// SupportedCurrencies lists the display currencies the service can quote in.
// Rates for non-USD currencies come from the FX table refreshed off the live feed.
var SupportedCurrencies = []string{"usd", "eur", "gbp", "jpy", "aud", "cad"}

// Config holds all configuration for Folio
type Config struct {
	Environment     string        `toml:"environment"`
	DisplayCurrency string        `toml:"display_currency"` // default display currency (lowercase code, default "usd")
	Server          ServerConfig  `toml:"server"`
	Storage         StorageConfig `toml:"storage"`
	Clients         ClientsConfig `toml:"clients"`
	Logging         LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	Path string `toml:"path"` // BadgerHold directory for holdings, runs and KV
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"` // demo or pro key, optional
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Retries   int    `toml:"retries"`
}

// GetTimeout parses and returns the timeout duration
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 12 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "usd",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/folio",
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "12s",
				Retries:   3,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "./logs/folio.log",
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
	validateDisplayCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "folio")
	}

	if dc := os.Getenv("FOLIO_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = strings.ToLower(dc)
	}

	if key := os.Getenv("COINGECKO_API_KEY"); key != "" {
		config.Clients.CoinGecko.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// IsSupportedCurrency reports whether code is a display currency the service quotes in.
func IsSupportedCurrency(code string) bool {
	code = strings.ToLower(code)
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// validateDisplayCurrency ensures DisplayCurrency is a supported code, defaulting to "usd".
func validateDisplayCurrency(config *Config) {
	dc := strings.ToLower(config.DisplayCurrency)
	if !IsSupportedCurrency(dc) {
		dc = "usd"
	}
	config.DisplayCurrency = dc
}
