package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)

	assert.Equal(t, "info", cfg.Logging.Level)
	// Development defaults to console output.
	assert.Equal(t, "console", cfg.Logging.Format)

	assert.Equal(t, 1.0, cfg.Optimization.Alpha)
	assert.Equal(t, 0.5, cfg.Optimization.Betta)
	assert.Equal(t, 2.0, cfg.Optimization.Gamma)
	assert.Equal(t, 1000, cfg.Optimization.MaxSteps)
	assert.Equal(t, 0.001, cfg.Optimization.Eps0)
	assert.Equal(t, 10, cfg.Optimization.MaxBlank)
	assert.Equal(t, 0.001, cfg.Optimization.Eps1)
	assert.Equal(t, 64, cfg.Optimization.MaxJobs)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("OPT_ALPHA", "0.8")
	t.Setenv("OPT_MAX_STEPS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 0.8, cfg.Optimization.Alpha)
	assert.Equal(t, 500, cfg.Optimization.MaxSteps)
	// Production keeps the JSON log format.
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
