package ipc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Commands understood by the daemon.
const (
	CmdHistoryList   = "history.list"
	CmdHistoryShow   = "history.show"
	CmdHistoryDelete = "history.delete"
	CmdHistoryClear  = "history.clear"
	CmdHistoryRecall = "history.recall"
	CmdSettingsGet   = "settings.get"
	CmdSettingsSet   = "settings.set"
	CmdMonitorPause  = "monitor.pause"
	CmdMonitorResume = "monitor.resume"
	CmdStatus        = "status"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a command sent from the CLI to the daemon.
type Request struct {
	Command string                 `json:"command"`        // e.g. "history.list"
	Args    map[string]interface{} `json:"args,omitempty"` // Command-specific arguments
}

// Response represents a reply from the daemon to the CLI.
type Response struct {
	Status  string          `json:"status"`            // "ok" or "error"
	Message string          `json:"message,omitempty"` // Human-readable message or error
	Data    json.RawMessage `json:"data,omitempty"`    // Command-specific payload
}

// OK builds a successful response carrying data, which may be nil.
func OK(message string, data interface{}) *Response {
	resp := &Response{Status: StatusOK, Message: message}
	if data == nil {
		return resp
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Errorf("failed to encode response: %v", err)
	}
	resp.Data = raw
	return resp
}

// Errorf builds an error response.
func Errorf(format string, args ...interface{}) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Err returns the response as an error, or nil when it succeeded.
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	if r.Message == "" {
		return fmt.Errorf("daemon returned status %q", r.Status)
	}
	return fmt.Errorf("daemon: %s", r.Message)
}

// Decode unmarshals the response data into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// String returns the named argument as a string.
func (r *Request) String(key string) (string, bool) {
	v, ok := r.Args[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Int64 returns the named argument as an integer. JSON numbers arrive as
// float64; numeric strings are accepted too.
func (r *Request) Int64(key string) (int64, bool, error) {
	v, ok := r.Args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, true, fmt.Errorf("argument %s must be an integer", key)
		}
		return int64(n), true, nil
	case int:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, true, fmt.Errorf("argument %s must be an integer: %w", key, err)
		}
		return i, true, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, true, fmt.Errorf("argument %s must be an integer: %w", key, err)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("argument %s has unsupported type %T", key, v)
	}
}
