package cmd

import (
	"fmt"
	"strconv"

	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/internal/types"
	"github.com/berrythewa/cliprecall/pkg/format"

	"github.com/spf13/cobra"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage clipboard history",
		Long: `Manage clipboard history:
  • List recent entries, newest first
  • Show a single entry in full
  • Delete one entry or clear everything`,
	}

	cmd.AddCommand(
		newHistoryListCmd(opts),
		newHistoryShowCmd(opts),
		newHistoryDeleteCmd(opts),
		newHistoryClearCmd(opts),
	)
	return cmd
}

// newHistoryListCmd creates the list subcommand
func newHistoryListCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		compact  bool
		noColors bool
		noIcons  bool
		maxLines int
		maxWidth int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard history",
		Long: `List clipboard history entries, newest first.

Examples:
  cliprecall history list                 # Show last 10 entries
  cliprecall history list -n 50           # Show last 50 entries
  cliprecall history list --compact       # Compact single-line format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.client().History(commandContext(cmd), limit)
			if err != nil {
				return hint(err)
			}
			if opts.useJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			fopts := format.DefaultOptions()
			if compact {
				fopts = format.CompactOptions()
			}
			fopts = outputOptions(cmd.OutOrStdout(), fopts)
			if noColors {
				fopts.UseColors = false
			}
			if noIcons {
				fopts.UseIcons = false
			}
			if cmd.Flags().Changed("max-lines") {
				fopts.MaxLines = maxLines
			}
			if cmd.Flags().Changed("max-width") {
				fopts.MaxWidth = maxWidth
			}

			fmt.Fprintln(cmd.OutOrStdout(), format.FormatEntryList(entries, fopts))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of entries to show")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")
	cmd.Flags().BoolVar(&noIcons, "no-icons", false, "disable icons in output")
	cmd.Flags().IntVar(&maxLines, "max-lines", 10, "maximum lines to show per entry (0 = no limit)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 80, "maximum width per line (0 = no limit)")

	return cmd
}

// newHistoryShowCmd creates the show subcommand
func newHistoryShowCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a history entry",
		Long: `Show a history entry by id.

Examples:
  cliprecall history show 42          # Show entry 42
  cliprecall history show 42 --raw    # Write the raw text or PNG bytes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := opts.client().Entry(commandContext(cmd), id)
			if err != nil {
				return hint(err)
			}

			out := cmd.OutOrStdout()
			switch {
			case raw && entry.Kind == types.KindImage:
				_, err := out.Write(entry.Image)
				return err
			case raw:
				_, err := fmt.Fprint(out, entry.Text)
				return err
			case opts.useJSON:
				return writeJSON(out, entry)
			}

			fopts := outputOptions(out, format.DefaultOptions())
			fopts.MaxLines = 0
			fopts.MaxWidth = 0
			fmt.Fprintln(out, format.FormatEntry(entry, fopts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "output raw content without metadata")
	return cmd
}

// newHistoryDeleteCmd creates the delete subcommand
func newHistoryDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a history entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := opts.call(cmd, ipc.CmdHistoryDelete, map[string]interface{}{"id": id})
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}
}

// newHistoryClearCmd creates the clear subcommand
func newHistoryClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			resp, err := opts.call(cmd, ipc.CmdHistoryClear, nil)
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing all history")
	return cmd
}

// newRecallCmd creates the recall command
func newRecallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recall <id>",
		Short: "Copy a history entry back to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := opts.call(cmd, ipc.CmdHistoryRecall, map[string]interface{}{"id": id})
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}
