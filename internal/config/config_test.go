package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini-1.5-flash-latest", cfg.Analysis.Model)
	assert.Equal(t, 90, cfg.Report.Width)
	assert.True(t, cfg.Cache.Enabled)
	assert.NotEmpty(t, cfg.Cache.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
analysis:
  model: gemini-1.5-pro
  timeout: 2m
report:
  width: 72
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.Analysis.Model)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.Timeout)
	assert.Equal(t, 72, cfg.Report.Width)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-override")
	t.Setenv("DECK_CACHE_PATH", "/tmp/override.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Analysis.APIKey)
	assert.Equal(t, "gemini-override", cfg.Analysis.Model)
	assert.Equal(t, "/tmp/override.db", cfg.Cache.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"narrow width", func(c *Config) { c.Report.Width = 10 }},
		{"zero concurrency", func(c *Config) { c.OCR.Concurrency = 0 }},
		{"zero timeout", func(c *Config) { c.Analysis.Timeout = 0 }},
		{"enabled cache without path", func(c *Config) { c.Cache.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
