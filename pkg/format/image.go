package format

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/berrythewa/cliprecall/internal/types"
)

// FormatImage describes an image entry. Dimensions are included when the
// PNG data was fetched along with the entry.
func FormatImage(entry *types.EntryView, opts Options) string {
	size := FormatSize(int64(entry.Size))
	if len(entry.Image) > 0 {
		if cfg, err := png.DecodeConfig(bytes.NewReader(entry.Image)); err == nil {
			return fmt.Sprintf("[PNG image %dx%d - %s]", cfg.Width, cfg.Height, size)
		}
	}
	return fmt.Sprintf("[PNG image - %s]", size)
}

// FormatImagePreview creates a short preview of image content
func FormatImagePreview(entry *types.EntryView, maxLen int) string {
	return TruncateText(entry.Preview, maxLen)
}
