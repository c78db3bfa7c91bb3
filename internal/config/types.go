package config

import "time"

// Config is the top-level guilddash configuration, corresponding to .guilddash.yml.
type Config struct {
	APIBaseURL         string        `yaml:"api_base_url" koanf:"api_base_url"`
	RefreshInterval    time.Duration `yaml:"refresh_interval" koanf:"refresh_interval"`
	RequestTimeout     time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout" koanf:"session_idle_timeout"`
	Port               int           `yaml:"port" koanf:"port"`
	DataDir            string        `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins    bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	DefaultGuildID     string        `yaml:"default_guild_id,omitempty" koanf:"default_guild_id"`
	NotifyWebhookURL   string        `yaml:"notify_webhook_url,omitempty" koanf:"notify_webhook_url"`
	NotificationLimit  int           `yaml:"notification_limit" koanf:"notification_limit"`
}
