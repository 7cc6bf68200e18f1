package format

import (
	"strings"

	"github.com/berrythewa/cliprecall/internal/types"
)

// FormatText formats text content for display
func FormatText(entry *types.EntryView, opts Options) string {
	if entry == nil || entry.Text == "" {
		return ""
	}

	text := entry.Text
	if opts.MaxLines > 0 {
		text = TruncateLines(text, opts.MaxLines)
	}
	if opts.MaxWidth > 0 {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = TruncateText(line, opts.MaxWidth)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

// FormatTextPreview creates a single-line preview of a text entry. It uses
// the full text when present and the stored preview otherwise.
func FormatTextPreview(entry *types.EntryView, maxLen int) string {
	if entry == nil {
		return ""
	}
	text := entry.Text
	if text == "" {
		text = entry.Preview
	}
	return TruncateText(singleLine(text), maxLen)
}

func singleLine(text string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(text)
}
