package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Scraper.Headless)
	assert.Equal(t, 20, cfg.Scraper.NavTimeoutSecs)
	assert.Equal(t, 3, cfg.Scraper.SettleDelaySecs)
	assert.Equal(t, 2, cfg.Scraper.PageDelaySecs)
	assert.Equal(t, 1, cfg.Scraper.EnrichDelaySecs)
	assert.Equal(t, 200, cfg.Scraper.MaxPages)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "2gis_results.xlsx", cfg.Export.Output)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NotEmpty(t, cfg.Scraper.UserAgent)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TWOGIS_SERVER_PORT", "8081")
	t.Setenv("TWOGIS_SCRAPER_MAX_PAGES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Scraper.MaxPages)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
