package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8081", cfg.Backend.URL)
	assert.Equal(t, 3, cfg.Backend.MaxRetries)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
backend:
  url: "http://flights.internal:8081"
  timeout: "3s"
cache:
  enabled: false
session:
  ttl: "10m"
log:
  level: debug
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://flights.internal:8081", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout())
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL())
	// values the file does not mention keep their defaults
	assert.Equal(t, 3, cfg.Backend.MaxRetries)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  timeout: \"soon\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.timeout")
}

func TestValidateRequiresBackendURL(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = ""
	assert.Error(t, cfg.Validate())
}
