package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/berrythewa/cliprecall/internal/ipc"
	"github.com/berrythewa/cliprecall/internal/storage"
	"github.com/berrythewa/cliprecall/internal/types"

	"go.uber.org/zap"
)

// Handle dispatches one IPC request.
func (d *Daemon) Handle(_ context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdHistoryList:
		return d.handleList(req)
	case ipc.CmdHistoryShow:
		return d.handleShow(req)
	case ipc.CmdHistoryDelete:
		return d.handleDelete(req)
	case ipc.CmdHistoryClear:
		return d.handleClear()
	case ipc.CmdHistoryRecall:
		return d.handleRecall(req)
	case ipc.CmdSettingsGet:
		return d.handleSettingsGet()
	case ipc.CmdSettingsSet:
		return d.handleSettingsSet(req)
	case ipc.CmdMonitorPause:
		d.monitor.Stop()
		return ipc.OK("monitoring paused", d.status())
	case ipc.CmdMonitorResume:
		d.monitor.Start()
		return ipc.OK("monitoring resumed", d.status())
	case ipc.CmdStatus:
		return ipc.OK("", d.status())
	default:
		return ipc.Errorf("unknown command %q", req.Command)
	}
}

func (d *Daemon) handleList(req *ipc.Request) *ipc.Response {
	limit, _, err := req.Int64("limit")
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	items, err := d.store.GetRecentItems(int(limit))
	if err != nil {
		d.logger.Error("Failed to list history", zap.Error(err))
		return ipc.Errorf("failed to list history: %v", err)
	}

	views := make([]types.EntryView, 0, len(items))
	for _, item := range items {
		views = append(views, item.View(false))
	}
	return ipc.OK("", views)
}

func (d *Daemon) handleShow(req *ipc.Request) *ipc.Response {
	entry, resp := d.lookup(req)
	if resp != nil {
		return resp
	}
	return ipc.OK("", entry.View(true))
}

func (d *Daemon) handleDelete(req *ipc.Request) *ipc.Response {
	id, err := entryID(req)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	if err := d.store.DeleteItem(id); err != nil {
		d.logger.Error("Failed to delete entry", zap.Int64("id", id), zap.Error(err))
		return ipc.Errorf("failed to delete entry %d: %v", id, err)
	}
	d.notifier.Notify()
	return ipc.OK(fmt.Sprintf("deleted entry %d", id), nil)
}

func (d *Daemon) handleClear() *ipc.Response {
	if err := d.store.ClearAll(); err != nil {
		d.logger.Error("Failed to clear history", zap.Error(err))
		return ipc.Errorf("failed to clear history: %v", err)
	}
	d.notifier.Notify()
	return ipc.OK("history cleared", nil)
}

func (d *Daemon) handleRecall(req *ipc.Request) *ipc.Response {
	entry, resp := d.lookup(req)
	if resp != nil {
		return resp
	}
	if err := d.monitor.Recall(entry); err != nil {
		d.logger.Error("Failed to recall entry", zap.Int64("id", entry.ID), zap.Error(err))
		return ipc.Errorf("%v", err)
	}
	return ipc.OK(fmt.Sprintf("copied entry %d to the clipboard", entry.ID), entry.View(false))
}

func (d *Daemon) handleSettingsGet() *ipc.Response {
	settings, err := d.store.GetSettings()
	if err != nil {
		return ipc.Errorf("failed to read settings: %v", err)
	}
	return ipc.OK("", settings)
}

func (d *Daemon) handleSettingsSet(req *ipc.Request) *ipc.Response {
	key, ok := req.String("key")
	if !ok || key == "" {
		return ipc.Errorf("missing argument key")
	}
	raw, ok := req.String("value")
	if !ok {
		return ipc.Errorf("missing argument value")
	}
	value, err := types.ValidateSetting(key, raw)
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	if err := d.store.SetSetting(key, value); err != nil {
		return ipc.Errorf("failed to save setting: %v", err)
	}
	return ipc.OK(fmt.Sprintf("%s set to %s", key, value), map[string]string{key: value})
}

func (d *Daemon) lookup(req *ipc.Request) (*types.Entry, *ipc.Response) {
	id, err := entryID(req)
	if err != nil {
		return nil, ipc.Errorf("%v", err)
	}
	entry, err := d.store.GetItem(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ipc.Errorf("entry %d not found", id)
	}
	if err != nil {
		return nil, ipc.Errorf("failed to read entry %d: %v", id, err)
	}
	return entry, nil
}

func (d *Daemon) status() types.MonitoringStatus {
	count, err := d.store.Count()
	if err != nil {
		d.logger.Warn("Failed to count entries", zap.Error(err))
	}
	return types.MonitoringStatus{
		IsRunning:  d.monitor.IsRunning(),
		Backend:    d.monitor.Backend(),
		EntryCount: count,
		DBPath:     d.store.Path(),
		InstanceID: d.cfg.InstanceID,
		StartedAt:  d.startedAt,
	}
}

func entryID(req *ipc.Request) (int64, error) {
	id, ok, err := req.Int64("id")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("missing argument id")
	}
	return id, nil
}
