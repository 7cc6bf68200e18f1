package clipboard

import (
	"errors"
	"fmt"

	atottoClip "github.com/atotto/clipboard"
)

// AtottoClipboard is a fallback clipboard implementation using the atotto/clipboard library
// It only supports text content
type AtottoClipboard struct{}

// NewAtottoClipboard returns a new Atotto-based clipboard implementation
func NewAtottoClipboard() *AtottoClipboard {
	return &AtottoClipboard{}
}

// Available reports whether a clipboard utility was found on this host.
func (c *AtottoClipboard) Available() bool {
	return !atottoClip.Unsupported
}

func (c *AtottoClipboard) Name() string { return "text-only" }

func (c *AtottoClipboard) ReadText() (string, error) {
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

func (c *AtottoClipboard) ReadImage() ([]byte, error) {
	return nil, nil
}

func (c *AtottoClipboard) WriteText(text string) error {
	if err := atottoClip.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (c *AtottoClipboard) WriteImage([]byte) error {
	return errors.New("only text content is supported for writing")
}
