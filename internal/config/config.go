package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Watchlist  []string `yaml:"watchlist"`
	DataSource struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
		Proxy      string `yaml:"proxy"`
	} `yaml:"data_source"`
	RateLimit struct {
		MarketRPS    float64 `yaml:"market_rps"`
		SentimentRPS float64 `yaml:"sentiment_rps"`
	} `yaml:"rate_limit"`
	Cache struct {
		TTLSeconds      int `yaml:"ttl_seconds"`
		MaxSize         int `yaml:"max_size"`
		ChartTTLSeconds int `yaml:"chart_ttl_seconds"`
	} `yaml:"cache"`
	Retry struct {
		MaxAttempts int `yaml:"max_attempts"`
		BaseMs      int `yaml:"base_ms"`
		MaxSec      int `yaml:"max_sec"`
	} `yaml:"retry"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Sentiment struct {
		Enabled bool   `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"sentiment"`
	Workers int `yaml:"workers"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKSCOPE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("STOCKSCOPE_REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("STOCKSCOPE_MARKET_RPS"); v != "" {
		var rps float64
		if _, err := fmt.Sscanf(v, "%f", &rps); err == nil {
			cfg.RateLimit.MarketRPS = rps
		}
	}

	// Defaults
	if cfg.DataSource.TimeoutSec == 0 {
		cfg.DataSource.TimeoutSec = 15
	}
	if cfg.RateLimit.MarketRPS == 0 {
		cfg.RateLimit.MarketRPS = 2.0
	}
	if cfg.RateLimit.SentimentRPS == 0 {
		cfg.RateLimit.SentimentRPS = 1.0
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 32
	}
	if cfg.Cache.ChartTTLSeconds == 0 {
		cfg.Cache.ChartTTLSeconds = cfg.Cache.TTLSeconds
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 6
	}
	if cfg.Retry.BaseMs == 0 {
		cfg.Retry.BaseMs = 800
	}
	if cfg.Retry.MaxSec == 0 {
		cfg.Retry.MaxSec = 20
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */15 * * * *"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}

	return cfg, nil
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if c.RateLimit.MarketRPS <= 0 {
		return fmt.Errorf("rate_limit.market_rps must be positive")
	}
	if c.RateLimit.SentimentRPS <= 0 {
		return fmt.Errorf("rate_limit.sentiment_rps must be positive")
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache.max_size must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
