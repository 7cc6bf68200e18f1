package format

// ANSI escape sequences used by the history and status views.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[37m"

	BrightBlue = "\033[94m"
	BrightCyan = "\033[96m"
)

func paint(text, code string, enabled bool) string {
	if !enabled || code == "" || text == "" {
		return text
	}
	return code + text + Reset
}

// ColorizeIf wraps text in color when useColors is set.
func ColorizeIf(text, color string, useColors bool) string {
	return paint(text, color, useColors)
}

// BoldIf renders text bold when useColors is set.
func BoldIf(text string, useColors bool) string {
	return paint(text, Bold, useColors)
}

// DimIf renders text dimmed when useColors is set.
func DimIf(text string, useColors bool) string {
	return paint(text, Dim, useColors)
}

// MonitorState renders the monitoring state word, green when running and
// yellow when paused.
func MonitorState(running bool, useColors bool) string {
	if running {
		return paint("running", Green, useColors)
	}
	return paint("paused", Yellow, useColors)
}
