package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.RateLimit.MarketRPS)
	assert.Equal(t, 1.0, cfg.RateLimit.SentimentRPS)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 32, cfg.Cache.MaxSize)
	assert.Equal(t, 300, cfg.Cache.ChartTTLSeconds, "chart TTL follows the main TTL by default")
	assert.Equal(t, 6, cfg.Retry.MaxAttempts)
	assert.Equal(t, 800, cfg.Retry.BaseMs)
	assert.Equal(t, 20, cfg.Retry.MaxSec)
	assert.Equal(t, 2, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
watchlist: [AAPL, MSFT]
data_source:
  base_url: "http://localhost:9999"
  timeout_sec: 5
rate_limit:
  market_rps: 4.5
cache:
  max_size: 8
  chart_ttl_seconds: 30
workers: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist)
	assert.Equal(t, "http://localhost:9999", cfg.DataSource.BaseURL)
	assert.Equal(t, 5, cfg.DataSource.TimeoutSec)
	assert.Equal(t, 4.5, cfg.RateLimit.MarketRPS)
	assert.Equal(t, 8, cfg.Cache.MaxSize)
	assert.Equal(t, 30, cfg.Cache.ChartTTLSeconds)
	assert.Equal(t, 3, cfg.Workers)
	// Unset fields still receive defaults.
	assert.Equal(t, 6, cfg.Retry.MaxAttempts)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watchlist: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOCKSCOPE_BASE_URL", "http://proxyhost:8080")
	t.Setenv("STOCKSCOPE_MARKET_RPS", "0.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://proxyhost:8080", cfg.DataSource.BaseURL)
	assert.Equal(t, 0.5, cfg.RateLimit.MarketRPS)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.RateLimit.MarketRPS = -1
	assert.Error(t, cfg.Validate())

	cfg.RateLimit.MarketRPS = 2
	cfg.Workers = -3
	assert.Error(t, cfg.Validate())
}
