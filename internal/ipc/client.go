package ipc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berrythewa/cliprecall/internal/types"
)

const (
	maxRetries = 3
	retryDelay = 200 * time.Millisecond
)

// Client is a typed client for the daemon socket, used by the CLI and any
// other history consumer.
type Client struct {
	socketPath string
	retries    int
	delay      time.Duration
}

// NewClient creates a new IPC client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		retries:    maxRetries,
		delay:      retryDelay,
	}
}

// Do sends a request and turns an error response into an error. Only
// connection failures are retried, so a request is never delivered twice.
func (c *Client) Do(ctx context.Context, command string, args map[string]interface{}) (*Response, error) {
	req := &Request{Command: command, Args: args}

	var lastErr error
	for i := 0; i < c.retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		resp, err := SendRequest(ctx, c.socketPath, req)
		if err == nil {
			if err := resp.Err(); err != nil {
				return nil, err
			}
			return resp, nil
		}
		lastErr = err
		if !errors.Is(err, ErrUnavailable) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", c.retries, lastErr)
}

// History returns up to limit entries, newest first, without payloads.
func (c *Client) History(ctx context.Context, limit int) ([]types.EntryView, error) {
	resp, err := c.Do(ctx, CmdHistoryList, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}
	var entries []types.EntryView
	if err := resp.Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Entry returns one entry including its text or image.
func (c *Client) Entry(ctx context.Context, id int64) (*types.EntryView, error) {
	resp, err := c.Do(ctx, CmdHistoryShow, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	var entry types.EntryView
	if err := resp.Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Settings returns every stored setting.
func (c *Client) Settings(ctx context.Context) (map[string]string, error) {
	resp, err := c.Do(ctx, CmdSettingsGet, nil)
	if err != nil {
		return nil, err
	}
	settings := map[string]string{}
	if err := resp.Decode(&settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Status returns the daemon status.
func (c *Client) Status(ctx context.Context) (*types.MonitoringStatus, error) {
	resp, err := c.Do(ctx, CmdStatus, nil)
	if err != nil {
		return nil, err
	}
	var status types.MonitoringStatus
	if err := resp.Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
