package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultSource         = "http://localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultValueEpsilon   = 0.01
)

// Config holds runtime configuration for the results archiver.
type Config struct {
	DatabaseURL    string
	Source         string
	Schedule       string
	RequestTimeout time.Duration
	ValueEpsilon   float64
	DryRun         bool
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{LogLevel: "info", LogFormat: "text"}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.Source = strings.TrimSpace(os.Getenv("TPV_SOURCE"))
	if cfg.Source == "" {
		cfg.Source = defaultSource
	}

	cfg.Schedule = strings.TrimSpace(os.Getenv("WATCHER_SCHEDULE"))
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_SCHEDULE: %w", err)
		}
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("WATCHER_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.ValueEpsilon = defaultValueEpsilon
	if v := strings.TrimSpace(os.Getenv("WATCHER_VALUE_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_VALUE_EPSILON: %w", err)
		}
		cfg.ValueEpsilon = f
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}

	return cfg, nil
}
