package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STUDYHUB_CONFIG", "TELEGRAM_TOKEN", "DATABASE_URL", "REPORT_AT", "REPORT_INTERVAL_HOURS",
		"STORE_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "HTTP_ADDR", "API_KEY",
		"WORK_MINUTES", "BREAK_MINUTES", "NOTIFY_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "study_hub.db" || cfg.Store.Backend != "sqlite" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ReportInterval != 5*time.Hour {
		t.Errorf("ReportInterval = %v", cfg.ReportInterval)
	}
	if cfg.Timer.WorkDuration() != 25*time.Minute || cfg.Timer.BreakDuration() != 5*time.Minute {
		t.Errorf("timer = %+v", cfg.Timer)
	}
	if cfg.NotifyTTL() != 3*time.Second {
		t.Errorf("NotifyTTL = %v", cfg.NotifyTTL())
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should require a token")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "studyhub.yaml")
	data := []byte(`telegram_token: from-file
database_url: /var/lib/studyhub/hub.db
report_interval_hours: 2
store:
  backend: redis
  redis_addr: localhost:6379
http:
  addr: ":8080"
  api_key: k1
timer:
  work_minutes: 50
  break_minutes: 10
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYHUB_CONFIG", path)
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("BREAK_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramToken != "from-env" {
		t.Errorf("token = %q, env should win", cfg.TelegramToken)
	}
	if cfg.DatabaseURL != "/var/lib/studyhub/hub.db" || cfg.HTTP.Addr != ":8080" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ReportInterval != 2*time.Hour {
		t.Errorf("ReportInterval = %v", cfg.ReportInterval)
	}
	if cfg.Timer.WorkMinutes != 50 || cfg.Timer.BreakMinutes != 15 {
		t.Errorf("timer = %+v", cfg.Timer)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORK_MINUTES", "twenty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric WORK_MINUTES")
	}
}

func TestValidate(t *testing.T) {
	base := Config{TelegramToken: "t", Store: StoreConfig{Backend: "sqlite"}}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"redis without addr", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }, true},
		{"bad report time", func(c *Config) { c.ReportAt = "7pm" }, true},
		{"report time", func(c *Config) { c.ReportAt = "07:30" }, false},
		{"http without api key", func(c *Config) { c.HTTP.Addr = "0.0.0.0:8080" }, true},
		{"http with api key", func(c *Config) { c.HTTP.Addr = ":8080"; c.HTTP.APIKey = "k1" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
