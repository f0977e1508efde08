package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_PORT", "TPV_SOURCE", "AUTOSTART", "TPV_REQUEST_TIMEOUT", "LIVE_PUSH_INTERVAL", "API_DEFAULT_LIMIT", "LOG_LEVEL", "LOG_FORMAT", "ATHLETE_PROFILE", "DATABASE_URL", "API_BEARER_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, ":8090", cfg.ListenAddr())
	assert.Equal(t, "http://localhost:8080", cfg.Source)
	assert.True(t, cfg.Autostart)
	assert.Equal(t, time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.LivePushInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TPV_SOURCE", "file:///srv/tpv")
	t.Setenv("AUTOSTART", "false")
	t.Setenv("LIVE_PUSH_INTERVAL", "250ms")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "file:///srv/tpv", cfg.Source)
	assert.False(t, cfg.Autostart)
	assert.Equal(t, 250*time.Millisecond, cfg.LivePushInterval)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                "-1",
		"AUTOSTART":           "maybe",
		"TPV_REQUEST_TIMEOUT": "soon",
		"API_DEFAULT_LIMIT":   "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}
