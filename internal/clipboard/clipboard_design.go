package clipboard

import (
	"errors"
	"fmt"

	"golang.design/x/clipboard"
)

// designClipboard reads and writes text and PNG images through
// golang.design/x/clipboard.
type designClipboard struct{}

func newDesignClipboard() (*designClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return &designClipboard{}, nil
}

func (c *designClipboard) Name() string { return "native" }

func (c *designClipboard) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *designClipboard) ReadImage() ([]byte, error) {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, nil
	}
	if !isPNG(data) {
		return nil, errors.New("clipboard image is not PNG encoded")
	}
	return data, nil
}

func (c *designClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (c *designClipboard) WriteImage(png []byte) error {
	if !isPNG(png) {
		return errors.New("only PNG images can be written")
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}
