package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quote-sync", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Empty(t, cfg.Storage.Path)

	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, DefaultSyncFetchTimeout, cfg.Sync.FetchTimeout)
	require.Len(t, cfg.Sync.Sources, 1)
	assert.Equal(t, SourceConfig{
		Name:    "placeholder",
		BaseURL: DefaultSourceBaseURL,
		Path:    "/posts",
	}, cfg.Sync.Sources[0])

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "trace")
	t.Setenv("APP_STORAGE_DRIVER", "sqlite")
	t.Setenv("APP_SYNC_ENABLED", "false")
	t.Setenv("APP_SYNC_INTERVAL", "2m")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "7s")
	t.Setenv("APP_CLIENT_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("APP_LOG_FILE_MAX_BACKUPS", "9")
	t.Setenv("APP_SYNC_FETCH_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 7*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 9, cfg.Log.File.MaxBackups)
	assert.Equal(t, 5*time.Second, cfg.Sync.FetchTimeout)
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper(map[string]any{
		"server.read_timeout": "30s",
		"log.level":           "info",
	})

	assert.Equal(t, "server.read_timeout", mapKey("APP_SERVER_READ_TIMEOUT"))
	assert.Equal(t, "log.level", mapKey("APP_LOG_LEVEL"))
	assert.Equal(t, "custom.thing", mapKey("APP_CUSTOM_THING"), "unknown keys split on every underscore")
}

func TestLoadFrom_BaseThenProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(`
log:
  level: debug
storage:
  driver: sqlite
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.yaml"), []byte(`
app:
  environment: dev
storage:
  driver: memory
`), 0o600))

	cfg, err := LoadFrom(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level, "base applies")
	assert.Equal(t, "memory", cfg.Storage.Driver, "profile wins over base")
	assert.Equal(t, "dev", cfg.App.Environment)
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("log: [unclosed"), 0o600))

	_, err := LoadFrom(dir, "")
	require.ErrorContains(t, err, "loading base config")
}

func TestLoad_ProfileFileOverridesSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "qa.yaml"), []byte(`
app:
  environment: qa
sync:
  interval: 45s
  sources:
    - name: primary
      base_url: http://quotes.internal
      path: /v1/items
    - name: mirror
      base_url: http://mirror.internal
      path: /items
`), 0o600))

	t.Chdir(dir)

	cfg, err := Load("qa")
	require.NoError(t, err)

	assert.Equal(t, "qa", cfg.App.Environment)
	assert.Equal(t, 45*time.Second, cfg.Sync.Interval)
	require.Len(t, cfg.Sync.Sources, 2)
	assert.Equal(t, "mirror", cfg.Sync.Sources[1].Name)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("does-not-exist")

	require.NoError(t, err)
	assert.Equal(t, "quote-sync", cfg.App.Name)
}

func TestStorageConfig_ResolvedPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		s := StorageConfig{Driver: "sqlite", Path: "/tmp/q.db"}
		assert.Equal(t, "/tmp/q.db", s.ResolvedPath())
	})

	t.Run("memory has no path", func(t *testing.T) {
		assert.Empty(t, StorageConfig{Driver: "memory"}.ResolvedPath())
	})

	t.Run("file default under data home", func(t *testing.T) {
		got := StorageConfig{Driver: "file"}.ResolvedPath()
		assert.Equal(t, filepath.Join("quote-sync", "slots"), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
	})

	t.Run("sqlite default under data home", func(t *testing.T) {
		got := StorageConfig{Driver: "sqlite"}.ResolvedPath()
		assert.Equal(t, "quotes.db", filepath.Base(got))
	})
}
