// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Channel failure policies. They control whether one channel's scan failure
// aborts the whole run or is skipped with a warning.
const (
	OnChannelErrorSkip  = "skip"
	OnChannelErrorAbort = "abort"
)

// Config holds all application configuration for watch-later synchronization.
type Config struct {
	// StateDir is where the subscription cache, run record, and playlist
	// selection are persisted (default: ~/.config/wlsync)
	StateDir string `json:"state_dir"`
	// SecretsFile is the OAuth client secrets file
	SecretsFile string `json:"secrets_file"`

	// LastRunBuffer is subtracted from the previous run's boundary when
	// filtering uploads, tolerating the platform's indexing delay
	LastRunBuffer time.Duration `json:"last_run_buffer"`
	// SubsMaxAge is the maximum age of the cached subscription list before
	// a forced rebuild
	SubsMaxAge time.Duration `json:"subs_max_age"`
	// BootstrapWindow is how far back the first run looks when no run
	// record exists yet
	BootstrapWindow time.Duration `json:"bootstrap_window"`
	// MaxUploads is how many recent uploads are scanned per channel
	MaxUploads int `json:"max_uploads"`
	// ScanWorkers is how many channels are scanned concurrently (1 = sequential)
	ScanWorkers int `json:"scan_workers"`
	// OnChannelError selects the per-channel failure policy ("skip" or "abort")
	OnChannelError string `json:"on_channel_error"`
	// RequestRate is the sustained API request rate in calls per second
	RequestRate float64 `json:"request_rate"`

	// MaxRetries is the maximum number of retries for failed API calls
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		SecretsFile:       "client_id.json",
		LastRunBuffer:     180 * time.Minute,
		SubsMaxAge:        14 * 24 * time.Hour,
		BootstrapWindow:   3 * 24 * time.Hour,
		MaxUploads:        10,
		ScanWorkers:       1,
		OnChannelError:    OnChannelErrorSkip,
		RequestRate:       1.0,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".config", "wlsync")
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from wlsync.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"wlsync.json",
		filepath.Join(os.Getenv("HOME"), ".config", "wlsync", "wlsync.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("WLSYNC_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("WLSYNC_SECRETS_FILE"); v != "" {
		c.SecretsFile = v
	}
	if v := os.Getenv("WLSYNC_LAST_RUN_BUFFER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LastRunBuffer = d
		}
	}
	if v := os.Getenv("WLSYNC_SUBS_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SubsMaxAge = d
		}
	}
	if v := os.Getenv("WLSYNC_BOOTSTRAP_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.BootstrapWindow = d
		}
	}
	if v := os.Getenv("WLSYNC_MAX_UPLOADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxUploads = n
		}
	}
	if v := os.Getenv("WLSYNC_SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ScanWorkers = n
		}
	}
	if v := os.Getenv("WLSYNC_ON_CHANNEL_ERROR"); v != "" {
		c.OnChannelError = v
	}
	if v := os.Getenv("WLSYNC_REQUEST_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestRate = f
		}
	}
	if v := os.Getenv("WLSYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("WLSYNC_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("WLSYNC_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.LastRunBuffer < 0 {
		return fmt.Errorf("last_run_buffer must be non-negative")
	}
	if c.SubsMaxAge <= 0 {
		return fmt.Errorf("subs_max_age must be positive")
	}
	if c.BootstrapWindow <= 0 {
		return fmt.Errorf("bootstrap_window must be positive")
	}
	if c.MaxUploads <= 0 {
		return fmt.Errorf("max_uploads must be positive")
	}
	if c.ScanWorkers <= 0 {
		return fmt.Errorf("scan_workers must be positive")
	}
	if c.OnChannelError != OnChannelErrorSkip && c.OnChannelError != OnChannelErrorAbort {
		return fmt.Errorf("on_channel_error must be %q or %q", OnChannelErrorSkip, OnChannelErrorAbort)
	}
	if c.RequestRate < 0 {
		return fmt.Errorf("request_rate must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
