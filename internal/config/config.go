// Package config loads linkpad settings from a TOML file.
//
// A missing file is not an error: defaults apply and any file values
// override them. Flag handling stays in cmd; this package only knows about
// the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Validation errors.
var (
	ErrBadDelay       = errors.New("debounce delay must be positive")
	ErrBadTitleBudget = errors.New("title budget must be positive")
	ErrMissingBase    = errors.New("base URL must not be empty")
	ErrBadLogLevel    = errors.New("log level must be debug, info, warn, or error")
)

// Config holds all linkpad settings.
type Config struct {
	// LinkPath is the link file holding the shareable URL.
	LinkPath string `toml:"link_path"`

	// BaseURL is the link without its fragment.
	BaseURL string `toml:"base_url"`

	// CachePath is the durable cache database file.
	CachePath string `toml:"cache_path"`

	// DebounceMS is the quiet period before a commit, in milliseconds.
	DebounceMS int `toml:"debounce_ms"`

	// TitleBudget bounds the derived title in grapheme clusters.
	TitleBudget int `toml:"title_budget"`

	// DefaultText is the built-in document used when neither link nor
	// cache yields content.
	DefaultText string `toml:"default_text"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogPath is the log file. Empty discards logs (the terminal is
	// owned by the widget).
	LogPath string `toml:"log_path"`
}

const defaultDocument = "# Welcome to linkpad\n\n" +
	"Everything you type lives in the shareable link and a local cache.\n" +
	"Replace this text to get started.\n"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LinkPath:    "linkpad.link",
		BaseURL:     "linkpad://doc",
		CachePath:   "linkpad.db",
		DebounceMS:  500,
		TitleBudget: 80,
		DefaultText: defaultDocument,
		LogLevel:    "info",
	}
}

// Load reads the configuration file at path, filling unset fields from
// Default. A missing file yields the defaults; an empty path skips the
// file entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for nonsensical values.
func (c Config) Validate() error {
	if c.DebounceMS <= 0 {
		return fmt.Errorf("%w: %d ms", ErrBadDelay, c.DebounceMS)
	}
	if c.TitleBudget <= 0 {
		return fmt.Errorf("%w: %d", ErrBadTitleBudget, c.TitleBudget)
	}
	if c.BaseURL == "" {
		return ErrMissingBase
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrBadLogLevel, c.LogLevel)
	}
	return nil
}

// Delay returns the debounce quiet period as a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// EnsureDirs creates the parent directories of the link, cache, and log
// paths.
func (c Config) EnsureDirs() error {
	for _, p := range []string{c.LinkPath, c.CachePath, c.LogPath} {
		if p == "" {
			continue
		}
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", dir, err)
			}
		}
	}
	return nil
}
