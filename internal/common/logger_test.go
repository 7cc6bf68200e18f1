package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/berrythewa/cliprecall/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "debug", Format: "json"}}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.Log.Level = "nonsense"
	logger, err = NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		InstanceID:  "test",
		SystemPaths: config.ConfigPaths{LogDir: filepath.Join(dir, "logs")},
		Log:         config.LogConfig{Level: "info", Format: "console", EnableFileLogging: true},
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello file")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "logs", logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}
