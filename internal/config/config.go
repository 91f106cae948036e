package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the hub.
type Config struct {
	TelegramToken  string        `yaml:"telegram_token"`
	DatabaseURL    string        `yaml:"database_url"`
	ReportInterval time.Duration `yaml:"-"`
	ReportHours    int           `yaml:"report_interval_hours"`
	// ReportAt, when set (HH:MM), sends the digest once a day instead of every ReportInterval.
	ReportAt string `yaml:"report_at"`

	Store StoreConfig `yaml:"store"`
	HTTP  HTTPConfig  `yaml:"http"`
	Timer TimerConfig `yaml:"timer"`

	NotifySeconds int `yaml:"notify_seconds"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type HTTPConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

type TimerConfig struct {
	WorkMinutes  int `yaml:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes"`
}

// WorkDuration is the length of a pomodoro work session.
func (t TimerConfig) WorkDuration() time.Duration {
	return time.Duration(t.WorkMinutes) * time.Minute
}

func (t TimerConfig) BreakDuration() time.Duration {
	return time.Duration(t.BreakMinutes) * time.Minute
}

// NotifyTTL is how long a notification stays visible.
func (c Config) NotifyTTL() time.Duration {
	return time.Duration(c.NotifySeconds) * time.Second
}

// Load reads the optional YAML file named by STUDYHUB_CONFIG, then environment variables,
// then fills defaults.
func Load() (Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("STUDYHUB_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	overrideString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.ReportAt, "REPORT_AT")
	overrideString(&cfg.Store.Backend, "STORE_BACKEND")
	overrideString(&cfg.Store.RedisAddr, "REDIS_ADDR")
	overrideString(&cfg.Store.RedisPassword, "REDIS_PASSWORD")
	overrideString(&cfg.HTTP.Addr, "HTTP_ADDR")
	overrideString(&cfg.HTTP.APIKey, "API_KEY")
	if err := overrideInt(&cfg.ReportHours, "REPORT_INTERVAL_HOURS"); err != nil {
		return cfg, err
	}
	if err := overrideInt(&cfg.Store.RedisDB, "REDIS_DB"); err != nil {
		return cfg, err
	}
	if err := overrideInt(&cfg.Timer.WorkMinutes, "WORK_MINUTES"); err != nil {
		return cfg, err
	}
	if err := overrideInt(&cfg.Timer.BreakMinutes, "BREAK_MINUTES"); err != nil {
		return cfg, err
	}
	if err := overrideInt(&cfg.NotifySeconds, "NOTIFY_SECONDS"); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// Validate checks the settings needed to run the bot.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	switch c.Store.Backend {
	case "sqlite":
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.HTTP.Addr != "" && c.HTTP.APIKey == "" {
		return fmt.Errorf("API_KEY is required when HTTP_ADDR is set")
	}
	if c.ReportAt != "" {
		if _, err := time.Parse("15:04", c.ReportAt); err != nil {
			return fmt.Errorf("REPORT_AT %q, expected HH:MM", c.ReportAt)
		}
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "study_hub.db"
	}
	if cfg.ReportHours <= 0 {
		cfg.ReportHours = 5
	}
	cfg.ReportInterval = time.Duration(cfg.ReportHours) * time.Hour
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	if cfg.Timer.WorkMinutes <= 0 {
		cfg.Timer.WorkMinutes = 25
	}
	if cfg.Timer.BreakMinutes <= 0 {
		cfg.Timer.BreakMinutes = 5
	}
	if cfg.NotifySeconds <= 0 {
		cfg.NotifySeconds = 3
	}
}

func overrideString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, env string) error {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", env, raw)
	}
	*dst = v
	return nil
}
