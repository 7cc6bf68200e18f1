package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/berrythewa/cliprecall/internal/clipboard"
	"github.com/berrythewa/cliprecall/internal/config"
	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/internal/storage"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Daemon owns the history store, the clipboard monitor and the IPC server.
type Daemon struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     storage.HistoryStore
	notifier  *clipboard.Notifier
	monitor   *clipboard.Monitor
	server    *ipc.Server
	startedAt time.Time
	closeOnce sync.Once
	closeErr  error
}

// New opens the history store and wires the monitor to it. A nil clipboard
// selects the best backend available on this host.
func New(cfg *config.Config, logger *zap.Logger, clip clipboard.Clipboard) (*Daemon, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SystemPaths.DBFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath: cfg.SystemPaths.DBFile,
		Logger: logger.Named("storage"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if clip == nil {
		clip = clipboard.NewClipboard(logger)
	}
	notifier := clipboard.NewNotifier()

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: notifier,
		monitor: clipboard.NewMonitor(clipboard.MonitorConfig{
			Clipboard:       clip,
			Store:           store,
			Notifier:        notifier,
			Logger:          logger.Named("monitor"),
			PollingInterval: cfg.Polling(),
		}),
		startedAt: time.Now(),
	}
	d.server = ipc.NewServer(cfg.SystemPaths.SocketPath, d.Handle, logger.Named("ipc"))
	return d, nil
}

// Run serves IPC requests and monitors the clipboard until ctx is cancelled,
// then stops the monitor and closes the store.
func (d *Daemon) Run(ctx context.Context) (err error) {
	if err := d.server.Listen(); err != nil {
		return multierr.Append(err, d.Close())
	}

	pidFile, pidErr := writePIDFile(d.cfg.SystemPaths.DataDir)
	if pidErr != nil {
		d.logger.Warn("Failed to write PID file", zap.Error(pidErr))
	}
	defer func() {
		if pidFile != "" {
			if rmErr := os.Remove(pidFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = multierr.Append(err, fmt.Errorf("failed to remove PID file: %w", rmErr))
			}
		}
	}()

	if d.cfg.StartPaused {
		d.logger.Info("Clipboard monitoring paused at startup")
	} else {
		d.monitor.Start()
	}

	d.logger.Info("Daemon started",
		zap.String("db", d.store.Path()),
		zap.String("socket", d.cfg.SystemPaths.SocketPath),
		zap.String("backend", d.monitor.Backend()))

	serveErr := d.server.Serve(ctx)
	d.logger.Info("Daemon shutting down")
	return multierr.Append(serveErr, d.Close())
}

// Close stops the monitor and closes the store. It is safe to call more than
// once.
func (d *Daemon) Close() error {
	d.closeOnce.Do(func() {
		d.monitor.Stop()
		d.closeErr = d.store.Close()
	})
	return d.closeErr
}

// Subscribe returns a channel signalled whenever the history changes.
func (d *Daemon) Subscribe() (<-chan struct{}, func()) {
	return d.notifier.Subscribe()
}

func writePIDFile(dataDir string) (string, error) {
	if dataDir == "" {
		return "", nil
	}
	pidDir := filepath.Join(dataDir, "run")
	if err := os.MkdirAll(pidDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pid directory: %w", err)
	}
	pidFile := filepath.Join(pidDir, "cliprecalld.pid")
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
		return "", fmt.Errorf("failed to write pid file: %w", err)
	}
	return pidFile, nil
}
