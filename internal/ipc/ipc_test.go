package ipc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/berrythewa/cliprecall/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startServer(t *testing.T, handler Handler) string {
	t.Helper()
	// Unix socket paths have a short length limit, keep it near the root of TempDir.
	socket := filepath.Join(t.TempDir(), "t.sock")
	ctx, cancel := context.WithCancel(context.Background())

	srv := NewServer(socket, handler, zaptest.NewLogger(t))
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
		assert.NoFileExists(t, socket)
	})
	return socket
}

func TestRoundTrip(t *testing.T) {
	socket := startServer(t, func(_ context.Context, req *Request) *Response {
		limit, _, err := req.Int64("limit")
		if err != nil {
			return Errorf("%v", err)
		}
		return OK(req.Command, map[string]int64{"limit": limit})
	})

	resp, err := SendRequest(context.Background(), socket, &Request{
		Command: CmdHistoryList,
		Args:    map[string]interface{}{"limit": 7},
	})
	require.NoError(t, err)
	require.NoError(t, resp.Err())
	assert.Equal(t, CmdHistoryList, resp.Message)

	var data map[string]int64
	require.NoError(t, resp.Decode(&data))
	assert.Equal(t, int64(7), data["limit"])

	resp, err = SendRequest(context.Background(), socket, &Request{
		Command: CmdHistoryList,
		Args:    map[string]interface{}{"limit": "many"},
	})
	require.NoError(t, err)
	assert.Error(t, resp.Err())
}

func TestHandlerPanicBecomesError(t *testing.T) {
	socket := startServer(t, func(context.Context, *Request) *Response {
		panic("boom")
	})

	resp, err := SendRequest(context.Background(), socket, &Request{Command: CmdStatus})
	require.NoError(t, err)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Message, CmdStatus)
}

func TestSecondServerRefused(t *testing.T) {
	socket := startServer(t, func(context.Context, *Request) *Response { return nil })

	err := NewServer(socket, nil, nil).ListenAndServe(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestSendRequestNoDaemon(t *testing.T) {
	_, err := SendRequest(context.Background(), filepath.Join(t.TempDir(), "none.sock"), &Request{Command: CmdStatus})
	assert.Error(t, err)
}

func TestRequestArgs(t *testing.T) {
	req := &Request{Args: map[string]interface{}{
		"f":   float64(3),
		"bad": 1.5,
		"s":   "12",
		"key": "historyLimit",
	}}

	n, ok, err := req.Int64("f")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, _, err = req.Int64("bad")
	assert.Error(t, err)

	n, _, err = req.Int64("s")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, ok, err = req.Int64("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	s, ok := req.String("key")
	assert.True(t, ok)
	assert.Equal(t, "historyLimit", s)
}

func TestClient(t *testing.T) {
	socket := startServer(t, func(_ context.Context, req *Request) *Response {
		switch req.Command {
		case CmdHistoryList:
			return OK("", []types.EntryView{{ID: 1, Kind: types.KindText, Preview: "one"}})
		case CmdStatus:
			return OK("", types.MonitoringStatus{IsRunning: true, EntryCount: 1})
		default:
			return Errorf("unknown command %q", req.Command)
		}
	})
	client := NewClient(socket)
	ctx := context.Background()

	entries, err := client.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].Preview)

	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsRunning)

	_, err = client.Do(ctx, "bogus", nil)
	assert.ErrorContains(t, err, "unknown command")
}

func TestClientRetriesOnlyConnectionFailures(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "none.sock"))
	client.delay = time.Millisecond

	_, err := client.Status(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "3 attempts")
}
