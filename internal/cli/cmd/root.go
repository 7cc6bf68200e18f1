package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/berrythewa/cliprecall/internal/common"
	"github.com/berrythewa/cliprecall/internal/config"
	"github.com/berrythewa/cliprecall/pkg/format"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions carries global flags and the resources loaded from them.
type rootOptions struct {
	configFile string
	socketPath string
	useJSON    bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cliprecall",
		Short: "A clipboard history manager",
		Long: `cliprecall keeps a bounded history of everything copied to the clipboard
and lets you put any past entry back.

  • Text and PNG images are captured by a background daemon
  • Duplicates are collapsed and the oldest entries evicted
  • History survives restarts in a single database file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	opts.addPersistentFlags(cmd)
	cmd.AddCommand(
		newDaemonCmd(opts),
		newHistoryCmd(opts),
		newRecallCmd(opts),
		newSettingsCmd(opts),
		newPauseCmd(opts),
		newResumeCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "config file (default is $HOME/.config/cliprecall/config.yaml)")
	cmd.PersistentFlags().StringVar(&o.socketPath, "socket", "", "daemon socket path (overrides config)")
	cmd.PersistentFlags().BoolVar(&o.useJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.socketPath != "" {
		cfg.SystemPaths.SocketPath = o.socketPath
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	o.cfg = cfg

	logger, err := newLoggerFor(cfg)
	if err != nil {
		return err
	}
	o.logger = logger
	return nil
}

func newLoggerFor(cfg *config.Config) (*zap.Logger, error) {
	logger, err := common.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return logger, nil
}

// Execute runs the cliprecall command line.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ExecuteDaemon runs the daemon command on its own, for cliprecalld.
func ExecuteDaemon() {
	opts := &rootOptions{}
	cmd := newDaemonCmd(opts)
	cmd.Use = "cliprecalld"
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	opts.addPersistentFlags(cmd)
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return opts.load()
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputOptions(w io.Writer, base format.Options) format.Options {
	return format.ForWriter(base, w)
}
