package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LastRunBuffer != 180*time.Minute {
		t.Errorf("LastRunBuffer = %v, want 180m", cfg.LastRunBuffer)
	}
	if cfg.SubsMaxAge != 14*24*time.Hour {
		t.Errorf("SubsMaxAge = %v, want 336h", cfg.SubsMaxAge)
	}
	if cfg.BootstrapWindow != 3*24*time.Hour {
		t.Errorf("BootstrapWindow = %v, want 72h", cfg.BootstrapWindow)
	}
	if cfg.MaxUploads != 10 {
		t.Errorf("MaxUploads = %d, want 10", cfg.MaxUploads)
	}
	if cfg.OnChannelError != OnChannelErrorSkip {
		t.Errorf("OnChannelError = %q, want %q", cfg.OnChannelError, OnChannelErrorSkip)
	}
	if cfg.ScanWorkers != 1 {
		t.Errorf("ScanWorkers = %d, want 1", cfg.ScanWorkers)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero buffer allowed", func(c *Config) { c.LastRunBuffer = 0 }, false},
		{"negative buffer", func(c *Config) { c.LastRunBuffer = -time.Minute }, true},
		{"zero subs max age", func(c *Config) { c.SubsMaxAge = 0 }, true},
		{"zero bootstrap", func(c *Config) { c.BootstrapWindow = 0 }, true},
		{"zero max uploads", func(c *Config) { c.MaxUploads = 0 }, true},
		{"zero workers", func(c *Config) { c.ScanWorkers = 0 }, true},
		{"bad channel error policy", func(c *Config) { c.OnChannelError = "retry" }, true},
		{"abort policy", func(c *Config) { c.OnChannelError = OnChannelErrorAbort }, false},
		{"rate limiting disabled", func(c *Config) { c.RequestRate = 0 }, false},
		{"negative rate", func(c *Config) { c.RequestRate = -1 }, true},
		{"backoff inverted", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }, true},
		{"multiplier too small", func(c *Config) { c.BackoffMultiplier = 1.0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WLSYNC_LAST_RUN_BUFFER", "90m")
	t.Setenv("WLSYNC_MAX_UPLOADS", "25")
	t.Setenv("WLSYNC_ON_CHANNEL_ERROR", "abort")
	t.Setenv("WLSYNC_SCAN_WORKERS", "4")
	t.Setenv("WLSYNC_REQUEST_RATE", "2.5")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.LastRunBuffer != 90*time.Minute {
		t.Errorf("LastRunBuffer = %v, want 90m", cfg.LastRunBuffer)
	}
	if cfg.MaxUploads != 25 {
		t.Errorf("MaxUploads = %d, want 25", cfg.MaxUploads)
	}
	if cfg.OnChannelError != OnChannelErrorAbort {
		t.Errorf("OnChannelError = %q, want abort", cfg.OnChannelError)
	}
	if cfg.ScanWorkers != 4 {
		t.Errorf("ScanWorkers = %d, want 4", cfg.ScanWorkers)
	}
	if cfg.RequestRate != 2.5 {
		t.Errorf("RequestRate = %v, want 2.5", cfg.RequestRate)
	}
}

func TestLoadFromEnv_IgnoresInvalid(t *testing.T) {
	t.Setenv("WLSYNC_LAST_RUN_BUFFER", "not-a-duration")
	t.Setenv("WLSYNC_MAX_UPLOADS", "many")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.LastRunBuffer != 180*time.Minute {
		t.Errorf("LastRunBuffer = %v, want default kept", cfg.LastRunBuffer)
	}
	if cfg.MaxUploads != 10 {
		t.Errorf("MaxUploads = %d, want default kept", cfg.MaxUploads)
	}
}
