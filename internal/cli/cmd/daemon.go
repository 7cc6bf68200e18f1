package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/berrythewa/cliprecall/internal/config"
	"github.com/berrythewa/cliprecall/internal/daemon"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// newDaemonCmd creates the daemon command
func newDaemonCmd(opts *rootOptions) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the clipboard daemon in the foreground",
		Long: `Run the daemon that watches the clipboard and serves history requests.

The daemon stops on SIGINT or SIGTERM. Flags override environment variables
(CLIPRECALL_POLL_INTERVAL, CLIPRECALL_START_PAUSED, ...), which override the
config file.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyDaemonOverrides(v, opts.cfg)
			return runDaemon(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.Duration("poll-interval", 0, "clipboard polling interval (default 500ms)")
	f.Bool("start-paused", false, "start with clipboard monitoring paused")
	f.String("db", "", "history database file")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.Bool("log-file", false, "also write logs under the data directory")

	return cmd
}

func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("CLIPRECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// applyDaemonOverrides copies flag and environment values that were set on
// top of the loaded config.
func applyDaemonOverrides(v *viper.Viper, cfg *config.Config) {
	if d := v.GetDuration("poll-interval"); d > 0 {
		cfg.PollingInterval = d.Milliseconds()
	}
	if v.IsSet("start-paused") {
		cfg.StartPaused = v.GetBool("start-paused")
	}
	if db := v.GetString("db"); db != "" {
		cfg.SystemPaths.DBFile = db
	}
	if level := v.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if v.GetBool("log-file") {
		cfg.Log.EnableFileLogging = true
	}
}

func runDaemon(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Levels may have changed through daemon flags.
	logger := opts.logger
	if rebuilt, err := newLoggerFor(opts.cfg); err == nil {
		logger = rebuilt
	}
	defer logger.Sync()

	d, err := daemon.New(opts.cfg, logger, nil)
	if err != nil {
		return err
	}

	logger.Info("Starting cliprecall daemon", zap.String("version", version))
	return d.Run(ctx)
}
