package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ellipsis       = "..."
	separatorWidth = 40
)

// FormatSize formats a byte count as a human-readable string
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value, suffix := float64(bytes), 0
	for value >= unit && suffix < len("KMGTPE") {
		value /= unit
		suffix++
	}
	return fmt.Sprintf("%.1f %cB", value, "KMGTPE"[suffix-1])
}

// FormatRelativeTime describes how long ago t was. Anything older than a
// week is shown as a date.
func FormatRelativeTime(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return ago(int(age.Minutes()), "minute")
	case age < 24*time.Hour:
		return ago(int(age.Hours()), "hour")
	case age < 7*24*time.Hour:
		return ago(int(age.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func ago(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TruncateText cuts text to at most maxLen runes, ending in an ellipsis
// when there is room for one. maxLen <= 0 disables truncation.
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// TruncateLines keeps the first maxLines lines and notes how many were cut.
func TruncateLines(text string, maxLines int) string {
	if maxLines <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	return fmt.Sprintf("%s\n... (%d more lines)", strings.Join(lines[:maxLines], "\n"), len(lines)-maxLines)
}

// IndentText prefixes every line of text.
func IndentText(text, prefix string) string {
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}

// CreateBox renders a titled, indented block. Empty content renders nothing.
func CreateBox(title, content string, opts Options) string {
	if content == "" {
		return ""
	}
	return DimIf("▼ "+title, opts.UseColors) + "\n" + IndentText(content, "  ")
}

// CreateSeparator draws a horizontal rule no wider than MaxWidth.
func CreateSeparator(opts Options) string {
	width := separatorWidth
	if opts.MaxWidth > 0 && opts.MaxWidth < width {
		width = opts.MaxWidth
	}
	return DimIf(strings.Repeat("─", width), opts.UseColors)
}
