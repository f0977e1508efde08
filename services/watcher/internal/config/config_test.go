package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "TPV_SOURCE", "WATCHER_SCHEDULE", "WATCHER_REQUEST_TIMEOUT", "WATCHER_VALUE_EPSILON", "DRY_RUN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresDatabaseUnlessDryRun(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")

	t.Setenv("DRY_RUN", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "http://localhost:8080", cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.01, cfg.ValueEpsilon)
	assert.Empty(t, cfg.Schedule)
}

func TestLoadSchedule(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tpvbc")
	t.Setenv("WATCHER_SCHEDULE", "*/5 * * * *")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", cfg.Schedule)

	t.Setenv("WATCHER_SCHEDULE", "every now and then")
	_, err = Load()
	assert.ErrorContains(t, err, "WATCHER_SCHEDULE")
}
