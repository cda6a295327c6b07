package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token      string `yaml:"token" envconfig:"BOT_TOKEN"`
	SuperAdmin int64  `yaml:"super_admin" envconfig:"SUPER_ADMIN"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	Dir    string `yaml:"dir" envconfig:"LOG_DIR"`
	File   string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// MediaConfig points to the directory where generated report artifacts live.
type MediaConfig struct {
	Dir string `yaml:"dir" envconfig:"MEDIA_DIR"`
}

// Config aggregates application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Media     MediaConfig     `yaml:"media"`
	Debug     bool            `yaml:"debug" envconfig:"DEBUG"`
}

// Load reads configuration from a YAML file and environment variables.
// The file is optional: when path is empty or absent, env alone drives it.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.LongPollTimeoutSeconds < 0 {
		return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
	}

	if cfg.Debug && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}
	if cfg.Debug && cfg.Logging.Profile == "" {
		cfg.Logging.Profile = "debug"
	}
	if cfg.Media.Dir == "" {
		cfg.Media.Dir = "media"
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
