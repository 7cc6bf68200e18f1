package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "cliprecall"
	dbFileName     = "history.db"
	socketFileName = "cliprecall.sock"
	configFileName = "config.yaml"

	// DefaultPollingInterval is the clipboard polling interval in milliseconds.
	DefaultPollingInterval = 500
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir    string `yaml:"base_dir"`    // Directory holding the config file
	ConfigFile string `yaml:"config_file"` // Path to the config file
	DataDir    string `yaml:"data_dir"`    // Directory for application data
	DBFile     string `yaml:"db_file"`     // Path to the history database
	LogDir     string `yaml:"log_dir"`     // Directory for log files
	SocketPath string `yaml:"socket_path"` // Unix socket the daemon listens on
}

// Config holds all application configuration
type Config struct {
	InstanceID  string      `yaml:"instance_id"`
	SystemPaths ConfigPaths `yaml:"system_paths"`
	Log         LogConfig   `yaml:"log"`

	// Clipboard monitoring options
	PollingInterval int64 `yaml:"polling_interval"` // milliseconds
	StartPaused     bool  `yaml:"start_paused"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level             string `yaml:"level"`
	Format            string `yaml:"format"` // "json" or "console"
	EnableFileLogging bool   `yaml:"enable_file_logging"`
}

// GetConfigPaths returns the platform-specific paths. CLIPRECALL_CONFIG_DIR
// and CLIPRECALL_DATA_DIR take precedence over the platform defaults.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv("CLIPRECALL_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		baseDir = filepath.Join(configDir, appName)
	}

	dataDir := os.Getenv("CLIPRECALL_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		switch runtime.GOOS {
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", appName)
		case "windows":
			dataDir = filepath.Join(baseDir, "data")
		default:
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, appName)
			} else {
				dataDir = filepath.Join(homeDir, ".local", "share", appName)
			}
		}
	}

	return &ConfigPaths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, configFileName),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, dbFileName),
		LogDir:     filepath.Join(dataDir, "logs"),
		SocketPath: DefaultSocketPath(),
	}, nil
}

// DefaultSocketPath returns $XDG_RUNTIME_DIR/cliprecall.sock, falling back
// to the temp directory.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketFileName)
	}
	return filepath.Join(os.TempDir(), socketFileName)
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	cfg := &Config{
		InstanceID: uuid.New().String(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		PollingInterval: DefaultPollingInterval,
	}
	if paths, err := GetConfigPaths(); err == nil {
		cfg.SystemPaths = *paths
	} else {
		fallback := filepath.Join(os.TempDir(), appName)
		cfg.SystemPaths = ConfigPaths{
			BaseDir:    fallback,
			ConfigFile: filepath.Join(fallback, configFileName),
			DataDir:    fallback,
			DBFile:     filepath.Join(fallback, dbFileName),
			LogDir:     filepath.Join(fallback, "logs"),
			SocketPath: DefaultSocketPath(),
		}
	}
	return cfg
}

// Load reads the configuration at configPath, creating it with defaults when
// it does not exist. An empty path means the platform default location.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetConfigPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ConfigFile
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg := DefaultConfig()
		cfg.SystemPaths.ConfigFile = configPath
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		overrideFromEnv(cfg)
		return cfg, nil
	}

	// Start from defaults so keys missing from the file keep sane values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.SystemPaths.ConfigFile = configPath
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.New().String()
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Polling returns the polling interval, or the default when unset.
func (c *Config) Polling() time.Duration {
	if c.PollingInterval <= 0 {
		return DefaultPollingInterval * time.Millisecond
	}
	return time.Duration(c.PollingInterval) * time.Millisecond
}

// SetDataDir moves the data directory and the files derived from it.
func (c *Config) SetDataDir(dir string) {
	c.SystemPaths.DataDir = dir
	c.SystemPaths.DBFile = filepath.Join(dir, dbFileName)
	c.SystemPaths.LogDir = filepath.Join(dir, "logs")
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) {
	if val := os.Getenv("CLIPRECALL_INSTANCE_ID"); val != "" {
		config.InstanceID = val
	}
	if val := os.Getenv("CLIPRECALL_DATA_DIR"); val != "" {
		config.SetDataDir(val)
	}
	if val := os.Getenv("CLIPRECALL_DB_PATH"); val != "" {
		config.SystemPaths.DBFile = val
	}
	if val := os.Getenv("CLIPRECALL_SOCKET"); val != "" {
		config.SystemPaths.SocketPath = val
	}

	if val := os.Getenv("CLIPRECALL_LOG_LEVEL"); val != "" {
		config.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("CLIPRECALL_LOG_FORMAT"); val != "" {
		config.Log.Format = strings.ToLower(val)
	}

	if val := os.Getenv("CLIPRECALL_POLLING_INTERVAL"); val != "" {
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil && ms > 0 {
			config.PollingInterval = ms
		}
	}
	if val := os.Getenv("CLIPRECALL_START_PAUSED"); val != "" {
		if paused, err := strconv.ParseBool(val); err == nil {
			config.StartPaused = paused
		}
	}
}
