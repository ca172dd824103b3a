package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TrelloConfig holds the remote endpoint and request pacing settings.
// Credentials are not part of the file; see the credential package.
type TrelloConfig struct {
	// BaseURL is the API root, e.g. https://api.trello.com/1.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// ListID is the single list the client browses and creates cards in.
	ListID string `mapstructure:"list_id" yaml:"list_id"`

	// TimeoutSec bounds a single request (connect + read).
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RateLimitMS is the minimum gap between two outbound calls.
	RateLimitMS int `mapstructure:"rate_limit_ms" yaml:"rate_limit_ms"`

	// ReconnectAttempts and ReconnectDelayMS shape the one reconnect
	// sequence attempted when the link is down.
	ReconnectAttempts int `mapstructure:"reconnect_attempts" yaml:"reconnect_attempts"`
	ReconnectDelayMS  int `mapstructure:"reconnect_delay_ms" yaml:"reconnect_delay_ms"`
}

// Timeout returns TimeoutSec as a duration.
func (c TrelloConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// RateLimit returns RateLimitMS as a duration.
func (c TrelloConfig) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMS) * time.Millisecond
}

// ReconnectDelay returns ReconnectDelayMS as a duration.
func (c TrelloConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMS) * time.Millisecond
}

// Cache backend names.
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
)

// CacheConfig selects where offline snapshots are kept.
type CacheConfig struct {
	// Backend is "file" (one JSON file per resource) or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Dir is the directory for snapshot files or the SQLite database.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DisplayConfig holds paging and input limits.
type DisplayConfig struct {
	CardsPerPage   int `mapstructure:"cards_per_page" yaml:"cards_per_page"`
	MaxTextLength  int `mapstructure:"max_text_length" yaml:"max_text_length"`
	IdleTimeoutSec int `mapstructure:"idle_timeout_sec" yaml:"idle_timeout_sec"`

	// PollIntervalSec is how often the list is refreshed in the
	// background while it is on screen. Zero disables polling.
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
	Theme           string `mapstructure:"theme" yaml:"theme"`
}

// IdleTimeout returns IdleTimeoutSec as a duration.
func (c DisplayConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

// PollInterval returns PollIntervalSec as a duration.
func (c DisplayConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Trello  TrelloConfig  `mapstructure:"trello" yaml:"trello"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// envPrefix namespaces environment overrides, e.g.
// POCKETBOARD_TRELLO_LIST_ID.
const envPrefix = "POCKETBOARD"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/pocketboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "pocketboard", "config.yaml")
}

// DefaultCacheDir returns the default snapshot directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "cache")
	}
	return filepath.Join(dir, "pocketboard")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Trello: TrelloConfig{
			BaseURL:           "https://api.trello.com/1",
			TimeoutSec:        10,
			RateLimitMS:       5000,
			ReconnectAttempts: 20,
			ReconnectDelayMS:  500,
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Dir:     DefaultCacheDir(),
		},
		Display: DisplayConfig{
			CardsPerPage:    5,
			MaxTextLength:   100,
			IdleTimeoutSec:  300,
			PollIntervalSec: 120,
			Theme:           "dark",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("trello.base_url", d.Trello.BaseURL)
	v.SetDefault("trello.list_id", d.Trello.ListID)
	v.SetDefault("trello.timeout_sec", d.Trello.TimeoutSec)
	v.SetDefault("trello.rate_limit_ms", d.Trello.RateLimitMS)
	v.SetDefault("trello.reconnect_attempts", d.Trello.ReconnectAttempts)
	v.SetDefault("trello.reconnect_delay_ms", d.Trello.ReconnectDelayMS)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("display.cards_per_page", d.Display.CardsPerPage)
	v.SetDefault("display.max_text_length", d.Display.MaxTextLength)
	v.SetDefault("display.idle_timeout_sec", d.Display.IdleTimeoutSec)
	v.SetDefault("display.poll_interval_sec", d.Display.PollIntervalSec)
	v.SetDefault("display.theme", d.Display.Theme)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Missing files yield the defaults; POCKETBOARD_* environment variables
// override both.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values, and so
	// AutomaticEnv knows every key when unmarshaling.
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the navigation and client code cannot work with.
func (c *AppConfig) Validate() error {
	if c.Display.CardsPerPage < 1 {
		return fmt.Errorf("display.cards_per_page must be at least 1, got %d", c.Display.CardsPerPage)
	}
	if c.Display.MaxTextLength < 1 {
		return fmt.Errorf("display.max_text_length must be at least 1, got %d", c.Display.MaxTextLength)
	}
	if c.Display.PollIntervalSec < 0 {
		return fmt.Errorf("display.poll_interval_sec must not be negative")
	}
	if c.Trello.RateLimitMS < 0 {
		return fmt.Errorf("trello.rate_limit_ms must not be negative")
	}
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendSQLite:
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("trello", cfg.Trello)
	v.Set("cache", cfg.Cache)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
