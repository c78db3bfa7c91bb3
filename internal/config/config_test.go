package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.APIBaseURL != "http://localhost:5000" {
		t.Errorf("expected default api_base_url %q, got %q", "http://localhost:5000", cfg.APIBaseURL)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("expected default refresh_interval 30s, got %s", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected default request_timeout 15s, got %s", cfg.RequestTimeout)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Errorf("expected default session_idle_timeout 5m, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.NotificationLimit != 50 {
		t.Errorf("expected default notification_limit 50, got %d", cfg.NotificationLimit)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.guilddash.yml")

	original := DefaultConfig()
	original.APIBaseURL = "http://bot.internal:5000"
	original.RefreshInterval = time.Minute
	original.Port = 9090
	original.AllowAllOrigins = true
	original.DefaultGuildID = "123456789"
	original.NotifyWebhookURL = "https://discord.com/api/webhooks/1/abc"

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "refresh_interval: 1m0s") {
		t.Errorf("expected human-readable duration in file:\n%s", data)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if *loaded != *original {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", *loaded, *original)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("port: 7000\nrefresh_interval: 10s\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 7000 || cfg.RefreshInterval != 10*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.APIBaseURL != "http://localhost:5000" || cfg.DataDir != "data" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("GUILDDASH_API_BASE_URL", "https://bot.example.com/")
	t.Setenv("GUILDDASH_PORT", "9000")
	t.Setenv("GUILDDASH_REFRESH_INTERVAL", "45s")
	t.Setenv("GUILDDASH_ALLOW_ALL_ORIGINS", "true")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIBaseURL != "https://bot.example.com" {
		t.Errorf("env override failed: got %q", loaded.APIBaseURL)
	}
	if loaded.Port != 9000 {
		t.Errorf("port override failed: got %d", loaded.Port)
	}
	if loaded.RefreshInterval != 45*time.Second {
		t.Errorf("refresh_interval override failed: got %s", loaded.RefreshInterval)
	}
	if !loaded.AllowAllOrigins {
		t.Error("allow_all_origins override failed")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("port: [unclosed\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty api_base_url", func(c *Config) { c.APIBaseURL = "" }},
		{"non-http api_base_url", func(c *Config) { c.APIBaseURL = "ftp://bot" }},
		{"api_base_url without host", func(c *Config) { c.APIBaseURL = "http://" }},
		{"refresh_interval too short", func(c *Config) { c.RefreshInterval = 100 * time.Millisecond }},
		{"negative request_timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"session_idle_timeout too short", func(c *Config) { c.SessionIdleTimeout = 0 }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"empty data_dir", func(c *Config) { c.DataDir = "" }},
		{"bad webhook", func(c *Config) { c.NotifyWebhookURL = "discord" }},
		{"negative notification_limit", func(c *Config) { c.NotificationLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestValidateZeroRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("request_timeout 0 means no timeout and should be valid: %v", err)
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"8080", true},
		{" 443 ", true},
		{"0", false},
		{"65536", false},
		{"http", false},
	}
	for _, tt := range tests {
		err := validatePort(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("validatePort(%q) err = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}
