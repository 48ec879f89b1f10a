// Package config provides unified configuration loading for deck-analyzer.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for one analyzer invocation. It is built
// once at startup and passed into each component; nothing reads ambient
// state after construction.
type Config struct {
	Analysis      AnalysisConfig      `yaml:"analysis"`
	OCR           OCRConfig           `yaml:"ocr"`
	Cache         CacheConfig         `yaml:"cache"`
	Report        ReportConfig        `yaml:"report"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// AnalysisConfig holds reasoning-model settings.
type AnalysisConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// OCRConfig holds OCR collaborator settings.
type OCRConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// ReportConfig holds renderer settings.
type ReportConfig struct {
	Width int `yaml:"width"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Discover returns the first config file found in the conventional
// locations: ./deck-analyzer.yaml, then the user config dir. Empty when
// none exists.
func Discover() string {
	candidates := []string{"deck-analyzer.yaml", "deck-analyzer.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(dir, "deck-analyzer", "config.yaml"))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Model:   "gemini-1.5-flash-latest",
			Timeout: 3 * time.Minute,
		},
		OCR: OCRConfig{
			Timeout:     30 * time.Second,
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Path:    defaultCachePath(),
			Enabled: true,
		},
		Report: ReportConfig{
			Width: 90,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Report.Width < 30 {
		return fmt.Errorf("report width must be at least 30, got %d", c.Report.Width)
	}

	if c.OCR.Concurrency < 1 {
		return fmt.Errorf("ocr concurrency must be at least 1, got %d", c.OCR.Concurrency)
	}

	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("analysis timeout must be positive")
	}

	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache path required when cache is enabled")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Analysis.APIKey = v
	}

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}

	if v := os.Getenv("DECK_OCR_ENDPOINT"); v != "" {
		cfg.OCR.Endpoint = v
	}

	if v := os.Getenv("DECK_OCR_API_KEY"); v != "" {
		cfg.OCR.APIKey = v
	}

	if v := os.Getenv("DECK_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// defaultCachePath places the cache database next to the user cache dir,
// falling back to a dotfile in the working directory.
func defaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "deck-analyzer", "reports.db")
	}
	return ".deck-analyzer-cache.db"
}
