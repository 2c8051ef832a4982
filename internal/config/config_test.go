package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(42), cfg.Model.Seed)
	assert.False(t, cfg.Model.ForceIndexRebuild)
	assert.Equal(t, 100*time.Millisecond, cfg.Grid.PacingDelay)
	assert.Equal(t, 30*time.Minute, cfg.FIRMS.PollInterval)
	assert.True(t, cfg.FIRMS.Enabled)
	assert.Empty(t, cfg.FIRMS.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_FORCE_INDEX_REBUILD", "true")
	t.Setenv("GRID_PACING_DELAY", "250ms")
	t.Setenv("FIRMS_API_KEY", "abc123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Model.ForceIndexRebuild)
	assert.Equal(t, 250*time.Millisecond, cfg.Grid.PacingDelay)
	assert.Equal(t, "abc123", cfg.FIRMS.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"bad port":            {"SERVER_PORT", "70000"},
		"bad log level":       {"LOG_LEVEL", "verbose"},
		"short poll interval": {"FIRMS_POLL_INTERVAL", "10s"},
		"bad firms days":      {"FIRMS_DAYS", "0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
