package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abtest/internal/errors"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "GIN_MODE", "API_PORT", "CORS_ALLOWED_ORIGINS",
	"ALPHA", "POWER", "CONFIDENCE_LEVEL", "BATCH_CONCURRENCY", "LOG_LEVEL",
}

// clearEnv blanks every variable Load reads; empty values count as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 0.80, cfg.Analysis.Power)
	assert.Equal(t, 0.95, cfg.Analysis.ConfidenceLevel)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_PORT", "9001")
	t.Setenv("ALPHA", "0.01")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("POWER", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "9001", cfg.API.Port)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, 0.80, cfg.Analysis.Power, "unparseable values fall back")
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.CORSAllowedOrigins)
}

// TestLoad_FileThenEnvironment verifies the YAML file is applied before environment overrides
func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "7000"
analysis:
  alpha: 0.1
  power: 0.9
  confidence_level: 0.9
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("POWER", "0.85")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.API.Port)
	assert.Equal(t, 0.1, cfg.Analysis.Alpha)
	assert.Equal(t, 0.85, cfg.Analysis.Power)
	assert.Equal(t, 0.9, cfg.Analysis.ConfidenceLevel)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIDENCE_LEVEL", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
