package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glowist/glowist-backend/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	log := logger.NewNop()
	cfg, err := Load(log)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reminders.MorningHour != 8 || cfg.Reminders.MorningMinute != 0 {
		t.Fatalf("morning default = %02d:%02d, want 08:00", cfg.Reminders.MorningHour, cfg.Reminders.MorningMinute)
	}
	if cfg.Reminders.EveningHour != 21 {
		t.Fatalf("evening default hour = %d, want 21", cfg.Reminders.EveningHour)
	}
	if cfg.Reminders.RescheduleOnRemoteChange {
		t.Fatal("reschedule_on_remote_change defaults to true, want false")
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Fatal("no default CORS origins")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`cors_origins:
  - https://app.example.com
reminders:
  morning_hour: 7
  morning_minute: 30
  evening_hour: 22
  evening_minute: 15
  reschedule_on_remote_change: true
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://app.example.com" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.Reminders.MorningHour != 7 || cfg.Reminders.MorningMinute != 30 {
		t.Fatalf("morning = %02d:%02d, want 07:30", cfg.Reminders.MorningHour, cfg.Reminders.MorningMinute)
	}
	if !cfg.Reminders.RescheduleOnRemoteChange {
		t.Fatal("reschedule_on_remote_change not read from file")
	}
}

func TestLoadEnvOverridesRescheduleFlag(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("REMINDERS_RESCHEDULE_ON_REMOTE_CHANGE", "true")
	cfg, err := Load(logger.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Reminders.RescheduleOnRemoteChange {
		t.Fatal("env override ignored")
	}
}
