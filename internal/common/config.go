// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Cache       CacheConfig    `toml:"cache"`
	Clients     ClientsConfig  `toml:"clients"`
	Analysis    AnalysisConfig `toml:"analysis"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CacheConfig selects the TTL cache backing store.
// Store is "memory" (default) or "badger"; Path applies to the badger store.
type CacheConfig struct {
	Store string `toml:"store"`
	Path  string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo  YahooConfig  `toml:"yahoo"`
	Gemini GeminiConfig `toml:"gemini"`
}

// YahooConfig holds market-data provider configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AnalysisConfig exposes the portfolio analysis policy constants.
// The defaults mirror the dashboard's historical behavior; they are policy
// values, not algorithm parameters, so they live in config.
type AnalysisConfig struct {
	StockConcentrationPct float64 `toml:"stock_concentration_pct"` // flag stocks above this % of portfolio
	FundConcentrationPct  float64 `toml:"fund_concentration_pct"`  // funds are inherently diversified, higher bar
	TaxLossMinDollar      float64 `toml:"tax_loss_min_dollar"`
	TaxLossMinPct         float64 `toml:"tax_loss_min_pct"`
	TaxRate               float64 `toml:"tax_rate"` // illustrative flat rate for estimated savings
	MaxGapFetches         int     `toml:"max_gap_fetches"`
	EnrichWorkers         int     `toml:"enrich_workers"`
	EnrichTaskTimeout     string  `toml:"enrich_task_timeout"`
	EnrichBatchTimeout    string  `toml:"enrich_batch_timeout"`
	OpportunityWorkers    int     `toml:"opportunity_workers"`
	OpportunityTimeout    string  `toml:"opportunity_timeout"`
}

// GetEnrichTaskTimeout parses the per-ticker enrichment deadline.
func (c *AnalysisConfig) GetEnrichTaskTimeout() time.Duration {
	d, err := time.ParseDuration(c.EnrichTaskTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetEnrichBatchTimeout parses the whole-batch enrichment deadline.
func (c *AnalysisConfig) GetEnrichBatchTimeout() time.Duration {
	d, err := time.ParseDuration(c.EnrichBatchTimeout)
	if err != nil {
		return 45 * time.Second
	}
	return d
}

// GetOpportunityTimeout parses the gap-opportunity fan-out deadline.
func (c *AnalysisConfig) GetOpportunityTimeout() time.Duration {
	d, err := time.ParseDuration(c.OpportunityTimeout)
	if err != nil {
		return 30 * time.Second
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
		Cache: CacheConfig{
			Store: "memory",
			Path:  "data/cache",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Analysis: AnalysisConfig{
			StockConcentrationPct: 15,
			FundConcentrationPct:  30,
			TaxLossMinDollar:      100,
			TaxLossMinPct:         5,
			TaxRate:               0.24,
			MaxGapFetches:         12,
			EnrichWorkers:         8,
			EnrichTaskTimeout:     "15s",
			EnrichBatchTimeout:    "45s",
			OpportunityWorkers:    6,
			OpportunityTimeout:    "30s",
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

	if store := os.Getenv("FOLIO_CACHE_STORE"); store != "" {
		config.Cache.Store = store
	}

	if path := os.Getenv("FOLIO_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}
}

// ResolveAPIKey resolves an API key from environment variables or the config
// fallback. Environment wins.
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"yahoo_api_key":  {"YAHOO_API_KEY", "FOLIO_YAHOO_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "FOLIO_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
