package cmd

import (
	"fmt"

	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/pkg/format"

	"github.com/spf13/cobra"
)

func newPauseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Stop capturing clipboard changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := opts.call(cmd, ipc.CmdMonitorPause, nil)
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}
}

func newResumeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume capturing clipboard changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := opts.call(cmd, ipc.CmdMonitorResume, nil)
			if err != nil {
				return err
			}
			return opts.printMessage(cmd, resp)
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := opts.client().Status(commandContext(cmd))
			if err != nil {
				return hint(err)
			}

			out := cmd.OutOrStdout()
			if opts.useJSON {
				return writeJSON(out, status)
			}
			fmt.Fprintln(out, format.FormatStatus(*status, outputOptions(out, format.DefaultOptions())))
			return nil
		},
	}
}
