// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port              string
	DBPath            string
	LogLevel          slog.Level
	CORSOrigins       []string
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

// Defaults.
const (
	DefaultPort              = "8080"
	DefaultDBPath            = "payroll.db"
	DefaultSchedulerInterval = time.Hour
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// Load reads .env files (missing files are ignored), then the environment.
// Real environment variables win over .env values.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("DB_PATH", DefaultDBPath)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", strings.Join(defaultOrigins, ","))
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_INTERVAL", DefaultSchedulerInterval.String())
	v.AutomaticEnv()

	cfg := &Config{
		Port:             v.GetString("PORT"),
		DBPath:           v.GetString("DB_PATH"),
		SchedulerEnabled: v.GetBool("SCHEDULER_ENABLED"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}

	level, err := ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	interval, err := time.ParseDuration(v.GetString("SCHEDULER_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL %q: %w", v.GetString("SCHEDULER_INTERVAL"), err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL %q: must be positive", v.GetString("SCHEDULER_INTERVAL"))
	}
	cfg.SchedulerInterval = interval

	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
