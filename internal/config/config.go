// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gemini-tui.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location (in order of precedence):
//   - ~/.gemini-tui/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemini-tui configuration.
type Config struct {
	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// Reply scheduler configuration
	Reply ReplyConfig `toml:"reply"`

	// Notification configuration
	Notify NotifyConfig `toml:"notify"`

	// Search configuration
	Search SearchConfig `toml:"search"`

	// Country directory configuration
	Directory DirectoryConfig `toml:"directory"`

	// Message index configuration
	Index IndexConfig `toml:"index"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// StorageConfig locates the conversation data on disk.
type StorageConfig struct {
	// DataDir is the root data directory (empty = ~/.gemini-tui)
	DataDir string `toml:"data_dir"`
	// WatchFiles enables reloading when the chats file changes on disk
	WatchFiles bool `toml:"watch_files"`
}

// ReplyConfig controls the simulated assistant reply.
type ReplyConfig struct {
	// MinDelayMs is the minimum reply delay in milliseconds
	MinDelayMs int `toml:"min_delay_ms"`
	// MaxDelayMs is the maximum reply delay in milliseconds
	MaxDelayMs int `toml:"max_delay_ms"`
	// Body is the canned assistant reply text (empty = built-in default)
	Body string `toml:"body"`
}

// NotifyConfig controls notification lifetimes.
type NotifyConfig struct {
	// TTLSecs is how long a notification stays visible, in seconds
	TTLSecs int `toml:"ttl_secs"`
}

// SearchConfig controls the conversation search view.
type SearchConfig struct {
	// DebounceMs is the keystroke settle time before a search runs
	DebounceMs int `toml:"debounce_ms"`
	// FuzzyRank enables fuzzy ranking of results instead of storage order
	FuzzyRank bool `toml:"fuzzy_rank"`
}

// DirectoryConfig controls the country calling-code directory fetch.
type DirectoryConfig struct {
	// URL is the directory endpoint (empty = built-in restcountries URL)
	URL string `toml:"url"`
	// TimeoutSecs bounds one fetch attempt
	TimeoutSecs int `toml:"timeout_secs"`
}

// IndexConfig controls the message-level search index.
type IndexConfig struct {
	// Enabled turns the sqlite message index on
	Enabled bool `toml:"enabled"`
	// Path is the index database path (empty = <data_dir>/index.db)
	Path string `toml:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Mode is the color mode: "dark", "light", "auto"
	Mode string `toml:"mode"`
	// Markdown enables glamour rendering of assistant messages
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:    "",
			WatchFiles: true,
		},
		Reply: ReplyConfig{
			MinDelayMs: 3000,
			MaxDelayMs: 6000,
			Body:       "",
		},
		Notify: NotifyConfig{
			TTLSecs: 10,
		},
		Search: SearchConfig{
			DebounceMs: 300,
			FuzzyRank:  false,
		},
		Directory: DirectoryConfig{
			URL:         "",
			TimeoutSecs: 15,
		},
		Index: IndexConfig{
			Enabled: true,
			Path:    "",
		},
		UI: UIConfig{
			Mode:     "dark",
			Markdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ResolvedDataDir returns the gemini-tui data directory, honoring the
// config's override.
func (c *Config) ResolvedDataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	return DefaultDataDir()
}

// DefaultDataDir returns ~/.gemini-tui.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemini-tui"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# gemini-tui configuration file")
	fmt.Fprintln(file, "# Generated by gemini-tui - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Reply.MinDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "reply.min_delay_ms",
			Message: "must be non-negative",
		})
	}
	if c.Reply.MaxDelayMs < c.Reply.MinDelayMs {
		errs = append(errs, ValidationError{
			Field:   "reply.max_delay_ms",
			Message: fmt.Sprintf("must be >= min_delay_ms (%d), got %d", c.Reply.MinDelayMs, c.Reply.MaxDelayMs),
		})
	}

	if c.Notify.TTLSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "notify.ttl_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Notify.TTLSecs),
		})
	}

	if c.Search.DebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "search.debounce_ms",
			Message: "must be non-negative",
		})
	}

	if c.Directory.URL != "" {
		if _, err := url.Parse(c.Directory.URL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "directory.url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}
	if c.Directory.TimeoutSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "directory.timeout_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Directory.TimeoutSecs),
		})
	}

	validModes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validModes[strings.ToLower(c.UI.Mode)] {
		errs = append(errs, ValidationError{
			Field:   "ui.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: dark, light, auto", c.UI.Mode),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills in any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Reply.MinDelayMs == 0 {
		c.Reply.MinDelayMs = defaults.Reply.MinDelayMs
	}
	if c.Reply.MaxDelayMs == 0 {
		c.Reply.MaxDelayMs = defaults.Reply.MaxDelayMs
	}
	if c.Notify.TTLSecs == 0 {
		c.Notify.TTLSecs = defaults.Notify.TTLSecs
	}
	if c.Search.DebounceMs == 0 {
		c.Search.DebounceMs = defaults.Search.DebounceMs
	}
	if c.Directory.TimeoutSecs == 0 {
		c.Directory.TimeoutSecs = defaults.Directory.TimeoutSecs
	}
	if c.UI.Mode == "" {
		c.UI.Mode = defaults.UI.Mode
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GEMINI_TUI_DATA_DIR: overrides storage.data_dir
//   - GEMINI_TUI_MODE: overrides ui.mode
//   - GEMINI_TUI_REPLY_BODY: overrides reply.body
//   - GEMINI_TUI_NO_INDEX: set to "1" or "true" to disable the message index
//   - GEMINI_TUI_DIRECTORY_URL: overrides directory.url
//   - GEMINI_TUI_DEBOUNCE_MS: overrides search.debounce_ms
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("GEMINI_TUI_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}

	if mode := os.Getenv("GEMINI_TUI_MODE"); mode != "" {
		c.UI.Mode = mode
	}

	if body := os.Getenv("GEMINI_TUI_REPLY_BODY"); body != "" {
		c.Reply.Body = body
	}

	if noIndex := os.Getenv("GEMINI_TUI_NO_INDEX"); noIndex != "" {
		if noIndex == "1" || strings.ToLower(noIndex) == "true" {
			c.Index.Enabled = false
		}
	}

	if u := os.Getenv("GEMINI_TUI_DIRECTORY_URL"); u != "" {
		c.Directory.URL = u
	}

	if ms := os.Getenv("GEMINI_TUI_DEBOUNCE_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			c.Search.DebounceMs = v
		}
	}
}

// =============================================================================
// DURATION HELPERS
// =============================================================================

// ReplyMinDelay returns the configured minimum reply delay.
func (c *Config) ReplyMinDelay() time.Duration {
	return time.Duration(c.Reply.MinDelayMs) * time.Millisecond
}

// ReplyMaxDelay returns the configured maximum reply delay.
func (c *Config) ReplyMaxDelay() time.Duration {
	return time.Duration(c.Reply.MaxDelayMs) * time.Millisecond
}

// NotifyTTL returns the configured notification lifetime.
func (c *Config) NotifyTTL() time.Duration {
	return time.Duration(c.Notify.TTLSecs) * time.Second
}

// SearchDebounce returns the configured search settle time.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// DirectoryTimeout returns the configured directory fetch timeout.
func (c *Config) DirectoryTimeout() time.Duration {
	return time.Duration(c.Directory.TimeoutSecs) * time.Second
}
