package cmd

import (
	"fmt"

	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/pkg/format"

	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change stored settings",
		Long: `Read or change the settings kept in the history database:
  globalShortcut    hotkey that opens the history overlay
  historyLimit      number of entries kept (10-250)
  launchAtStartup   start with the desktop session (true/false)`,
	}
	cmd.AddCommand(newSettingsGetCmd(opts), newSettingsSetCmd(opts))
	return cmd
}

func newSettingsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show all settings or a single one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.client().Settings(commandContext(cmd))
			if err != nil {
				return hint(err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				value, ok := settings[args[0]]
				if !ok {
					return fmt.Errorf("unknown setting %q", args[0])
				}
				if opts.useJSON {
					return writeJSON(out, map[string]string{args[0]: value})
				}
				fmt.Fprintln(out, value)
				return nil
			}

			if opts.useJSON {
				return writeJSON(out, settings)
			}
			fmt.Fprintln(out, format.FormatSettings(settings, outputOptions(out, format.DefaultOptions())))
			return nil
		},
	}
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.call(cmd, ipc.CmdSettingsSet, map[string]interface{}{
				"key":   args[0],
				"value": args[1],
			})
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}
}
