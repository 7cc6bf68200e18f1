package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/berrythewa/cliprecall/internal/types"
)

// FormatStatus formats the daemon status for display
func FormatStatus(status types.MonitoringStatus, opts Options) string {
	state := MonitorState(status.IsRunning, opts.UseColors)

	parts := []string{
		ColorizeIf("Clipboard Daemon", BrightBlue, opts.UseColors),
		"",
		formatStatLine("Monitoring", state, opts),
		formatStatLine("Backend", status.Backend, opts),
		formatStatLine("Entries", fmt.Sprintf("%d", status.EntryCount), opts),
		formatStatLine("Database", status.DBPath, opts),
		formatStatLine("Instance", status.InstanceID, opts),
	}
	if !status.StartedAt.IsZero() {
		parts = append(parts, formatStatLine("Started", FormatRelativeTime(status.StartedAt), opts))
	}
	return strings.Join(parts, "\n")
}

// FormatSettings formats settings sorted by key
func FormatSettings(settings map[string]string, opts Options) string {
	if len(settings) == 0 {
		return ColorizeIf("No settings", Gray, opts.UseColors)
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, formatStatLine(k, settings[k], opts))
	}
	return strings.Join(lines, "\n")
}

// formatStatLine formats a line with label and value
func formatStatLine(label, value string, opts Options) string {
	return fmt.Sprintf("  %s %s", ColorizeIf(label+":", BrightCyan, opts.UseColors), value)
}
