package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/utils"
)

// Config is the merged application configuration: infrastructure settings come
// from environment variables, app-level knobs from an optional YAML file
// pointed at by CONFIG_PATH.
type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MediaDir        string

	CORSOrigins []string
	Reminders   ReminderConfig
}

type ReminderConfig struct {
	// Default reminder times used when no setting row exists yet.
	MorningHour   int `yaml:"morning_hour"`
	MorningMinute int `yaml:"morning_minute"`
	EveningHour   int `yaml:"evening_hour"`
	EveningMinute int `yaml:"evening_minute"`

	// When true, a setting change observed on the realtime bus also
	// reschedules the local notification. The source app only rescheduled
	// from direct toggles, so this defaults to false.
	RescheduleOnRemoteChange bool `yaml:"reschedule_on_remote_change"`
}

type fileConfig struct {
	CORSOrigins []string       `yaml:"cors_origins"`
	Reminders   ReminderConfig `yaml:"reminders"`
}

func Load(log *logger.Logger) (Config, error) {
	cfg := Config{
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		MediaDir:        utils.GetEnv("MEDIA_DIR", "./media", log),
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:8081",
		},
		Reminders: ReminderConfig{
			MorningHour:   8,
			MorningMinute: 0,
			EveningHour:   21,
			EveningMinute: 0,
		},
	}

	path := utils.GetEnv("CONFIG_PATH", "", log)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if len(fc.CORSOrigins) > 0 {
			cfg.CORSOrigins = fc.CORSOrigins
		}
		if fc.Reminders != (ReminderConfig{}) {
			cfg.Reminders = fc.Reminders
		}
	}

	// Env wins over the file for the remote-reschedule toggle.
	cfg.Reminders.RescheduleOnRemoteChange = utils.GetEnvAsBool(
		"REMINDERS_RESCHEDULE_ON_REMOTE_CHANGE", cfg.Reminders.RescheduleOnRemoteChange, log)

	return cfg, nil
}
