package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/berrythewa/cliprecall/internal/ipc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (o *rootOptions) client() *ipc.Client {
	return ipc.NewClient(o.cfg.SystemPaths.SocketPath)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// hint adds a pointer to the daemon command when nothing is listening.
func hint(err error) error {
	if errors.Is(err, ipc.ErrUnavailable) {
		return fmt.Errorf("%w (is the daemon running? start it with `cliprecall daemon`)", err)
	}
	return err
}

// call sends one request to the daemon and fails on an error response.
func (o *rootOptions) call(cmd *cobra.Command, command string, args map[string]interface{}) (*ipc.Response, error) {
	o.logger.Debug("Sending request", zap.String("command", command), zap.String("socket", o.cfg.SystemPaths.SocketPath))
	resp, err := o.client().Do(commandContext(cmd), command, args)
	return resp, hint(err)
}

// printMessage writes the daemon's message, or the raw response in JSON mode.
func (o *rootOptions) printMessage(cmd *cobra.Command, resp *ipc.Response) error {
	if o.useJSON {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	if resp.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	}
	return nil
}
