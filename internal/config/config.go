// Package config handles loading the kaios CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// RAWGConfig holds catalog API configuration.
type RAWGConfig struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	UserAgent string  `toml:"user_agent"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
	PageSize  int     `toml:"page_size"`
}

// RedisConfig holds the optional response cache connection.
type RedisConfig struct {
	Addr string `toml:"addr"` // empty disables caching
	DB   int    `toml:"db"`
}

// FeedConfig tunes the grid's fetch controller.
type FeedConfig struct {
	Debounce     time.Duration `toml:"debounce"`
	Timeout      time.Duration `toml:"timeout"`
	MockFallback bool          `toml:"mock_fallback"` // hero only
}

// AssistantConfig holds chat panel configuration.
type AssistantConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // the TUI logs here instead of stderr
}

// Config represents the kaios configuration.
type Config struct {
	RAWG      RAWGConfig      `toml:"rawg"`
	Redis     RedisConfig     `toml:"redis"`
	Feed      FeedConfig      `toml:"feed"`
	Assistant AssistantConfig `toml:"assistant"`
	Log       LogConfig       `toml:"log"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
	Path    string `toml:"-"`
}

// DefaultHome returns the kaios home directory. KAIOS_HOME overrides it.
func DefaultHome() string {
	if h := os.Getenv("KAIOS_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kaios"
	}
	return filepath.Join(home, ".kaios")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	homeDir := DefaultHome()
	return &Config{
		HomeDir: homeDir,
		RAWG: RAWGConfig{
			BaseURL:   "https://api.rawg.io/api",
			UserAgent: "kaios/1.0",
			RateLimit: 5,
			PageSize:  20,
		},
		Feed: FeedConfig{
			Debounce:     600 * time.Millisecond,
			Timeout:      15 * time.Second,
			MockFallback: true,
		},
		Assistant: AssistantConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "kaios.log"),
		},
	}
}

// Load reads the configuration from path. An empty path means
// ~/.kaios/config.toml; a missing file yields the defaults. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.HomeDir, "config.toml")
	}
	cfg.Path = path

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg.applyEnv()
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RAWG_API_KEY"); v != "" {
		c.RAWG.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Assistant.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		c.Assistant.APIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.Addr = v
	}
}

// Validate checks value ranges. Missing API keys are not errors: the grid
// and assistant degrade instead.
func (c *Config) Validate() error {
	if c.RAWG.PageSize < 1 || c.RAWG.PageSize > 40 {
		return fmt.Errorf("rawg.page_size must be between 1 and 40, got %d", c.RAWG.PageSize)
	}
	if c.RAWG.RateLimit <= 0 {
		return fmt.Errorf("rawg.rate_limit must be positive, got %v", c.RAWG.RateLimit)
	}
	if c.Feed.Debounce < 0 {
		return fmt.Errorf("feed.debounce must not be negative")
	}
	if c.Feed.Timeout < 0 {
		return fmt.Errorf("feed.timeout must not be negative")
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
