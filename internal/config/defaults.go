package config

import "time"

const (
	// DefaultPath is the config file looked up in the working directory.
	DefaultPath = ".guilddash.yml"
	// EnvPrefix prefixes every environment override, e.g. GUILDDASH_PORT.
	EnvPrefix = "GUILDDASH_"
)

// Refresh intervals offered by the wizard.
var intervalChoices = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:5000",
		RefreshInterval:    30 * time.Second,
		RequestTimeout:     15 * time.Second,
		SessionIdleTimeout: 5 * time.Minute,
		Port:               8080,
		DataDir:            "data",
		NotificationLimit:  50,
	}
}
