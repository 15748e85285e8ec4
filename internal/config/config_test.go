package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 60*time.Second, cfg.Export.Timeout)
	assert.True(t, cfg.Export.Headless)
}

func TestLoadConfigFromYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_REDIS_HOST", "cache.internal")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
session:
  backend: redis
  ttl: 2h
redis:
  url: redis://${TEST_REDIS_HOST}:6380
logging:
  level: debug
  adapters:
    - name: console
      type: stdout
      enabled: true
      options:
        format: text
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis://cache.internal:6380", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Logging.Adapters, 1)
	assert.Equal(t, "text", cfg.Logging.Adapters[0].Options["format"])
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("EXPORT_TIMEOUT", "15s")
	t.Setenv("CHROME_PATH", "/usr/bin/chromium")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Export.Timeout)
	assert.Equal(t, "/usr/bin/chromium", cfg.Export.ChromePath)
}

func TestExpandEnvVarsKeepsUnknown(t *testing.T) {
	assert.Equal(t, "${DEFINITELY_NOT_SET_VAR}", expandEnvVars("${DEFINITELY_NOT_SET_VAR}"))
}
