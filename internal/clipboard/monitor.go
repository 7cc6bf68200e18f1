package clipboard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/berrythewa/cliprecall/internal/types"

	"go.uber.org/zap"
)

// DefaultPollingInterval is how often the clipboard is checked.
const DefaultPollingInterval = 500 * time.Millisecond

// EntryStore receives accepted clipboard captures. AddItem returns a
// negative id when the store is not open yet.
type EntryStore interface {
	AddItem(entry *types.Entry) (int64, error)
}

// MonitorConfig holds the monitor's collaborators and tuning.
type MonitorConfig struct {
	Clipboard       Clipboard
	Store           EntryStore
	Notifier        *Notifier
	Logger          *zap.Logger
	PollingInterval time.Duration
}

// Monitor polls the clipboard, detects new text or images and hands them to
// the store.
type Monitor struct {
	clipboard Clipboard
	store     EntryStore
	notifier  *Notifier
	logger    *zap.Logger
	interval  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// tickMu serialises poll and guards the last-seen state.
	tickMu               sync.Mutex
	lastText             string
	lastImageFingerprint string
}

// NewMonitor creates a stopped monitor.
func NewMonitor(cfg MonitorConfig) *Monitor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.PollingInterval
	if interval <= 0 {
		interval = DefaultPollingInterval
	}
	clip := cfg.Clipboard
	if clip == nil {
		clip = headlessClipboard{}
	}
	return &Monitor{
		clipboard: clip,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
	}
}

// Start begins polling. Calling it on a running monitor does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	go m.run(m.stopCh)

	m.logger.Info("Started clipboard monitoring",
		zap.String("backend", m.clipboard.Name()),
		zap.Duration("interval", m.interval))
}

// Stop halts polling. A tick already in progress runs to completion.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	m.logger.Info("Stopped clipboard monitoring")
}

// IsRunning reports whether the monitor is polling.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Backend returns the name of the clipboard backend in use.
func (m *Monitor) Backend() string {
	return m.clipboard.Name()
}

func (m *Monitor) run(stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll performs a single clipboard check. Text takes priority: when new
// text is found the image is not looked at until the next tick.
func (m *Monitor) poll() {
	m.tickMu.Lock()
	defer m.tickMu.Unlock()

	if !m.IsRunning() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Clipboard check failed", zap.Any("panic", r))
		}
	}()

	text, err := m.clipboard.ReadText()
	if err != nil {
		m.logger.Error("Error reading clipboard text", zap.Error(err))
		return
	}
	if strings.TrimSpace(text) != "" && text != m.lastText {
		m.lastText = text
		m.acceptText(text)
		return
	}

	img, err := m.clipboard.ReadImage()
	if err != nil {
		m.logger.Error("Error reading clipboard image", zap.Error(err))
		return
	}
	if len(img) == 0 {
		return
	}
	fp := fingerprint(img)
	if fp == m.lastImageFingerprint {
		return
	}
	m.lastImageFingerprint = fp
	m.acceptImage(img)
}

func (m *Monitor) acceptText(text string) {
	entry, truncated := types.NewTextEntry(text, m.now())
	if truncated {
		m.logger.Warn("Text too large, truncating",
			zap.Int("length", len(text)),
			zap.Int("limit", types.MaxTextLength))
	}
	m.save(entry)
}

func (m *Monitor) acceptImage(img []byte) {
	entry, err := types.NewImageEntry(img, m.now())
	if err != nil {
		m.logger.Warn("Image too large, skipping", zap.Int("size", len(img)), zap.Error(err))
		return
	}
	m.save(entry)
}

func (m *Monitor) save(entry *types.Entry) {
	if m.store == nil {
		return
	}
	id, err := m.store.AddItem(entry)
	if err != nil {
		m.logger.Error("Failed to save content to storage",
			zap.String("kind", string(entry.Kind())),
			zap.Error(err))
		return
	}
	if id < 0 {
		m.logger.Debug("Storage not ready, capture skipped", zap.String("kind", string(entry.Kind())))
		return
	}

	m.logger.Info("New clipboard content saved",
		zap.Int64("id", id),
		zap.String("kind", string(entry.Kind())),
		zap.String("preview", entry.Preview))
	m.notifier.Notify()
}

// Recall puts a stored entry back on the clipboard.
func (m *Monitor) Recall(entry *types.Entry) error {
	switch p := entry.Payload.(type) {
	case types.TextPayload:
		if err := m.clipboard.WriteText(p.Content); err != nil {
			return fmt.Errorf("failed to write text to clipboard: %w", err)
		}
	case types.ImagePayload:
		if err := m.clipboard.WriteImage(p.Data); err != nil {
			return fmt.Errorf("failed to write image to clipboard: %w", err)
		}
	default:
		return fmt.Errorf("unsupported entry payload %T", entry.Payload)
	}
	m.logger.Info("Copied entry to clipboard", zap.Int64("id", entry.ID), zap.String("preview", entry.Preview))
	return nil
}

func (m *Monitor) lastSeen() (string, string) {
	m.tickMu.Lock()
	defer m.tickMu.Unlock()
	return m.lastText, m.lastImageFingerprint
}
