package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeader)
	assert.Equal(t, 10*time.Second, cfg.Server.Shutdown)
	assert.Equal(t, "products.json", cfg.Store.Path)
	assert.False(t, cfg.Store.Strict)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Zero(t, cfg.RateLimit.Requests)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  shutdown: 3s
store:
  path: /var/lib/catalog/products.json
ratelimit:
  requests: 50
  window: 30s
`), 0o644))

	t.Setenv("CATALOG_SERVER_PORT", "9191")
	t.Setenv("CATALOG_METRICS_TOKEN", "s3cret")
	t.Setenv("CATALOG_STORE_STRICT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "env wins over file")
	assert.Equal(t, 3*time.Second, cfg.Server.Shutdown)
	assert.Equal(t, "/var/lib/catalog/products.json", cfg.Store.Path)
	assert.True(t, cfg.Store.Strict)
	assert.Equal(t, "s3cret", cfg.Metrics.Token)
	assert.Equal(t, 50, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.NotContains(t, cfg.String(), "s3cret")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CATALOG_SERVER_PORT", "70000")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "invalid server port")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("CATALOG_SERVER_PORT"))
	assert.Equal(t, "ratelimit.window", envKey("CATALOG_RATELIMIT_WINDOW"))
}
