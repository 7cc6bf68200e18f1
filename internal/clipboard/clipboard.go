package clipboard

import (
	"go.uber.org/zap"
)

// Clipboard is the system clipboard as seen by the monitor. ReadImage
// returns nil when the clipboard holds no image.
type Clipboard interface {
	Name() string
	ReadText() (string, error)
	ReadImage() ([]byte, error)
	WriteText(text string) error
	WriteImage(png []byte) error
}

// NewClipboard returns the best backend available on this host: the native
// text+image backend, then the text-only atotto backend, then a headless
// no-op.
func NewClipboard(logger *zap.Logger) Clipboard {
	if logger == nil {
		logger = zap.NewNop()
	}

	native, err := newDesignClipboard()
	if err == nil {
		return native
	}
	logger.Warn("Native clipboard unavailable, trying text-only backend", zap.Error(err))

	atotto := NewAtottoClipboard()
	if atotto.Available() {
		return atotto
	}
	logger.Warn("No clipboard backend available, running headless")
	return headlessClipboard{}
}

// headlessClipboard is used on hosts without a display server. It never
// reports content and discards writes.
type headlessClipboard struct{}

func (headlessClipboard) Name() string               { return "headless" }
func (headlessClipboard) ReadText() (string, error)  { return "", nil }
func (headlessClipboard) ReadImage() ([]byte, error) { return nil, nil }
func (headlessClipboard) WriteText(string) error     { return nil }
func (headlessClipboard) WriteImage([]byte) error    { return nil }
