package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds the optional Postgres connection settings.
// An empty host means the bot runs in session-only mode without persistence.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Configured reports whether persistence settings are present.
func (d DatabaseConfig) Configured() bool {
	return strings.TrimSpace(d.Host) != ""
}

// RedisConfig holds the optional Redis session store settings.
type RedisConfig struct {
	URI string `yaml:"uri" envconfig:"REDIS_URI"`
}

// PrayerAPIConfig configures the aladhan.com API client.
type PrayerAPIConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"PRAYER_API_BASE_URL"`
	// Method selects the prayer calculation method (3 = Muslim World League).
	Method  int  `yaml:"method" envconfig:"PRAYER_API_METHOD"`
	ISO8601 bool `yaml:"iso8601" envconfig:"PRAYER_API_ISO8601"`
}

// FeedbackConfig identifies the operator chat that receives forwarded feedback.
// A zero recipient disables the feedback flow.
type FeedbackConfig struct {
	Recipient int64 `yaml:"recipient" envconfig:"FEEDBACK_RECIPIENT"`
}

// ReminderConfig controls the daily Fajr reminder loop.
type ReminderConfig struct {
	Enabled         bool `yaml:"enabled" envconfig:"REMINDER_ENABLED"`
	IntervalMinutes int  `yaml:"interval_minutes" envconfig:"REMINDER_INTERVAL_MINUTES"`
	// FanOutAll restores the legacy behavior of notifying every enabled user
	// once any user's Fajr time matches the current minute.
	FanOutAll     bool `yaml:"fan_out_all" envconfig:"REMINDER_FAN_OUT_ALL"`
	MaxConcurrent int  `yaml:"max_concurrent" envconfig:"REMINDER_MAX_CONCURRENT"`
}

// HealthConfig configures the liveness HTTP endpoint.
type HealthConfig struct {
	Listen string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	KeysOrder string `yaml:"keys_order"`
	Dir       string `yaml:"dir"`
	File      string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// RateLimitConfig holds settings for per-user rate limiting.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// AppConfig groups bot application level settings.
type AppConfig struct {
	LocalesDir      string `yaml:"locales_dir" envconfig:"LOCALES_DIR"`
	DefaultLanguage string `yaml:"default_language" envconfig:"DEFAULT_LANGUAGE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	PrayerAPI PrayerAPIConfig `yaml:"prayer_api"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Health    HealthConfig    `yaml:"health"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	App       AppConfig       `yaml:"app"`
}

// Load reads configuration from a YAML file and environment variables.
// The file is optional: when it does not exist the configuration comes from
// the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		case os.IsNotExist(err):
			// env-only configuration
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
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

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required (set BOT_TOKEN)")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.PrayerAPI.BaseURL == "" {
		cfg.PrayerAPI.BaseURL = "http://api.aladhan.com/v1"
	}
	cfg.PrayerAPI.BaseURL = strings.TrimRight(cfg.PrayerAPI.BaseURL, "/")
	if cfg.PrayerAPI.Method <= 0 {
		cfg.PrayerAPI.Method = 3 // Muslim World League
	}

	if cfg.Database.Configured() {
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	}

	if cfg.Reminder.IntervalMinutes <= 0 {
		cfg.Reminder.IntervalMinutes = 30
	}
	if cfg.Reminder.MaxConcurrent <= 0 {
		cfg.Reminder.MaxConcurrent = 8
	}

	if cfg.App.LocalesDir == "" {
		cfg.App.LocalesDir = "locales"
	}
	if cfg.App.DefaultLanguage == "" {
		cfg.App.DefaultLanguage = "en"
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
