package daemon

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/berrythewa/cliprecall/internal/config"
	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *memClipboard) Name() string { return "memory" }

func (c *memClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *memClipboard) ReadImage() ([]byte, error) { return nil, nil }

func (c *memClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func (c *memClipboard) WriteImage([]byte) error { return nil }

func (c *memClipboard) get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		InstanceID:      "test-instance",
		PollingInterval: 10,
		StartPaused:     true,
	}
	cfg.SetDataDir(filepath.Join(dir, "data"))
	cfg.SystemPaths.SocketPath = filepath.Join(dir, "d.sock")
	return cfg
}

func newTestDaemon(t *testing.T) (*Daemon, *memClipboard) {
	t.Helper()
	clip := &memClipboard{}
	d, err := New(testConfig(t), zaptest.NewLogger(t), clip)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, clip
}

func addText(t *testing.T, d *Daemon, text string, ts int64) int64 {
	t.Helper()
	e, _ := types.NewTextEntry(text, time.UnixMilli(ts))
	id, err := d.store.AddItem(e)
	require.NoError(t, err)
	return id
}

func call(d *Daemon, command string, args map[string]interface{}) *ipc.Response {
	return d.Handle(context.Background(), &ipc.Request{Command: command, Args: args})
}

func TestHandleHistory(t *testing.T) {
	d, _ := newTestDaemon(t)
	first := addText(t, d, "first", 1)
	second := addText(t, d, "second", 2)

	resp := call(d, ipc.CmdHistoryList, map[string]interface{}{"limit": float64(10)})
	require.NoError(t, resp.Err())
	var views []types.EntryView
	require.NoError(t, resp.Decode(&views))
	require.Len(t, views, 2)
	assert.Equal(t, second, views[0].ID)
	assert.Empty(t, views[0].Text)

	resp = call(d, ipc.CmdHistoryShow, map[string]interface{}{"id": float64(first)})
	require.NoError(t, resp.Err())
	var view types.EntryView
	require.NoError(t, resp.Decode(&view))
	assert.Equal(t, "first", view.Text)

	resp = call(d, ipc.CmdHistoryShow, map[string]interface{}{"id": float64(999)})
	assert.Error(t, resp.Err())

	resp = call(d, ipc.CmdHistoryShow, nil)
	assert.Error(t, resp.Err())
}

func TestHandleDeleteAndClearNotify(t *testing.T) {
	d, _ := newTestDaemon(t)
	ch, unsubscribe := d.Subscribe()
	defer unsubscribe()

	id := addText(t, d, "doomed", 1)
	addText(t, d, "also doomed", 2)

	require.NoError(t, call(d, ipc.CmdHistoryDelete, map[string]interface{}{"id": float64(id)}).Err())
	assert.Len(t, ch, 1)
	<-ch

	count, err := d.store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, call(d, ipc.CmdHistoryClear, nil).Err())
	assert.Len(t, ch, 1)

	count, err = d.store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleRecall(t *testing.T) {
	d, clip := newTestDaemon(t)
	id := addText(t, d, "bring me back", 1)

	require.NoError(t, call(d, ipc.CmdHistoryRecall, map[string]interface{}{"id": float64(id)}).Err())
	assert.Equal(t, "bring me back", clip.get())
}

func TestHandleSettings(t *testing.T) {
	d, _ := newTestDaemon(t)

	resp := call(d, ipc.CmdSettingsGet, nil)
	require.NoError(t, resp.Err())
	var settings map[string]string
	require.NoError(t, resp.Decode(&settings))
	assert.Equal(t, "50", settings[types.SettingHistoryLimit])

	resp = call(d, ipc.CmdSettingsSet, map[string]interface{}{"key": types.SettingHistoryLimit, "value": float64(120)})
	require.NoError(t, resp.Err())
	assert.Equal(t, 120, d.store.HistoryLimit())

	resp = call(d, ipc.CmdSettingsSet, map[string]interface{}{"key": types.SettingHistoryLimit, "value": "5"})
	assert.Error(t, resp.Err())
	assert.Equal(t, 120, d.store.HistoryLimit())

	resp = call(d, ipc.CmdSettingsSet, map[string]interface{}{"key": "colour", "value": "red"})
	assert.Error(t, resp.Err())
}

func TestHandlePauseResumeStatus(t *testing.T) {
	d, _ := newTestDaemon(t)

	var status types.MonitoringStatus
	resp := call(d, ipc.CmdStatus, nil)
	require.NoError(t, resp.Decode(&status))
	assert.False(t, status.IsRunning)
	assert.Equal(t, "memory", status.Backend)
	assert.Equal(t, "test-instance", status.InstanceID)

	require.NoError(t, call(d, ipc.CmdMonitorResume, nil).Decode(&status))
	assert.True(t, status.IsRunning)

	require.NoError(t, call(d, ipc.CmdMonitorPause, nil).Decode(&status))
	assert.False(t, status.IsRunning)

	assert.Error(t, call(d, "history.explode", nil).Err())
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.StartPaused = false
	clip := &memClipboard{text: "captured while running"}

	d, err := New(cfg, zaptest.NewLogger(t), clip)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var views []types.EntryView
	require.Eventually(t, func() bool {
		resp, err := ipc.SendRequest(context.Background(), cfg.SystemPaths.SocketPath,
			&ipc.Request{Command: ipc.CmdHistoryList})
		if err != nil || resp.Err() != nil {
			return false
		}
		return resp.Decode(&views) == nil && len(views) == 1
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "captured while running", views[0].Preview)
	assert.FileExists(t, filepath.Join(cfg.SystemPaths.DataDir, "run", "cliprecalld.pid"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
	assert.NoFileExists(t, filepath.Join(cfg.SystemPaths.DataDir, "run", "cliprecalld.pid"))
	assert.False(t, d.monitor.IsRunning())
}
