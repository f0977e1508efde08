package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = 8090
	defaultSource           = "http://localhost:8080"
	defaultRequestTimeout   = time.Second
	defaultLivePushInterval = time.Second
	defaultLimit            = 200
)

// Config holds environment-driven settings for the broadcast API.
type Config struct {
	Port             int
	Source           string
	Autostart        bool
	AthleteProfile   string
	DatabaseURL      string
	BearerToken      string
	LogLevel         string
	LogFormat        string
	RequestTimeout   time.Duration
	LivePushInterval time.Duration
	DefaultLimit     int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:             defaultPort,
		Source:           defaultSource,
		Autostart:        true,
		LogLevel:         "info",
		LogFormat:        "text",
		RequestTimeout:   defaultRequestTimeout,
		LivePushInterval: defaultLivePushInterval,
		DefaultLimit:     defaultLimit,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if source := strings.TrimSpace(os.Getenv("TPV_SOURCE")); source != "" {
		cfg.Source = source
	}

	if v := strings.TrimSpace(os.Getenv("AUTOSTART")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid AUTOSTART: %w", err)
		}
		cfg.Autostart = b
	}

	if v := strings.TrimSpace(os.Getenv("TPV_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid TPV_REQUEST_TIMEOUT: %s", v)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("LIVE_PUSH_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid LIVE_PUSH_INTERVAL: %s", v)
		}
		cfg.LivePushInterval = d
	}

	if limitStr := os.Getenv("API_DEFAULT_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_LIMIT: %s", limitStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}

	cfg.AthleteProfile = strings.TrimSpace(os.Getenv("ATHLETE_PROFILE"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
