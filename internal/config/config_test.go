package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLIPRECALL_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("CLIPRECALL_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	for _, key := range []string{
		"CLIPRECALL_INSTANCE_ID", "CLIPRECALL_DB_PATH", "CLIPRECALL_SOCKET",
		"CLIPRECALL_LOG_LEVEL", "CLIPRECALL_LOG_FORMAT",
		"CLIPRECALL_POLLING_INTERVAL", "CLIPRECALL_START_PAUSED",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.InstanceID)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling())
	assert.Equal(t, filepath.Join(dir, "data", "history.db"), cfg.SystemPaths.DBFile)
	assert.Equal(t, filepath.Join(dir, "run", "cliprecall.sock"), cfg.SystemPaths.SocketPath)
	assert.Equal(t, filepath.Join(dir, "config", "config.yaml"), cfg.SystemPaths.ConfigFile)
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.InstanceID, again.InstanceID, "instance id must be stable once written")
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")

	cfg := DefaultConfig()
	cfg.InstanceID = "fixed-id"
	cfg.PollingInterval = 250
	cfg.StartPaused = true
	cfg.Log.Level = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", loaded.InstanceID)
	assert.Equal(t, 250*time.Millisecond, loaded.Polling())
	assert.True(t, loaded.StartPaused)
	assert.Equal(t, "debug", loaded.Log.Level)
}

func TestLoadPartialFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "partial.yaml")
	data, err := yaml.Marshal(map[string]interface{}{"start_paused": true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.StartPaused)
	assert.NotEmpty(t, cfg.InstanceID)
	assert.Equal(t, int64(DefaultPollingInterval), cfg.PollingInterval)
	assert.Equal(t, filepath.Join(dir, "data", "history.db"), cfg.SystemPaths.DBFile)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CLIPRECALL_INSTANCE_ID", "env-id")
	t.Setenv("CLIPRECALL_DATA_DIR", filepath.Join(dir, "elsewhere"))
	t.Setenv("CLIPRECALL_SOCKET", filepath.Join(dir, "s.sock"))
	t.Setenv("CLIPRECALL_LOG_LEVEL", "DEBUG")
	t.Setenv("CLIPRECALL_POLLING_INTERVAL", "1000")
	t.Setenv("CLIPRECALL_START_PAUSED", "true")

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.InstanceID)
	assert.Equal(t, filepath.Join(dir, "elsewhere", "history.db"), cfg.SystemPaths.DBFile)
	assert.Equal(t, filepath.Join(dir, "s.sock"), cfg.SystemPaths.SocketPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Polling())
	assert.True(t, cfg.StartPaused)

	t.Setenv("CLIPRECALL_POLLING_INTERVAL", "-5")
	cfg, err = Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultPollingInterval), cfg.PollingInterval)
}
