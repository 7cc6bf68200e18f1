package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/berrythewa/cliprecall/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "cliprecall.log"

// NewLogger creates a new logger instance
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := "json"
	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Log.Format == "console" || cfg.Log.Format == "text" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := []string{"stderr"}
	if cfg.Log.EnableFileLogging && cfg.SystemPaths.LogDir != "" {
		if err := os.MkdirAll(cfg.SystemPaths.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		outputs = append(outputs, filepath.Join(cfg.SystemPaths.LogDir, logFileName))
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(zap.String("instance", cfg.InstanceID)), nil
}
