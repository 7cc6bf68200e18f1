package format

import (
	"io"

	"github.com/berrythewa/cliprecall/internal/types"
	"github.com/mattn/go-isatty"
)

// Options controls formatting behavior
type Options struct {
	UseColors    bool
	UseIcons     bool
	MaxWidth     int  // Max content width (0 = no limit)
	MaxLines     int  // Max content lines (0 = no limit)
	ShowMetadata bool // Show timestamps and size
	Compact      bool // Use compact single-line format
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		UseColors:    true,
		UseIcons:     true,
		MaxWidth:     80,
		MaxLines:     10,
		ShowMetadata: true,
		Compact:      false,
	}
}

// CompactOptions returns options for compact single-line display
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.Compact = true
	opts.ShowMetadata = false
	opts.MaxLines = 1
	return opts
}

// ForWriter adjusts opts to the destination: colors and icons are only
// kept when w is a terminal.
func ForWriter(opts Options, w io.Writer) Options {
	if !IsTerminal(w) {
		opts.UseColors = false
		opts.UseIcons = false
	}
	return opts
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// KindIcons maps entry kinds to Unicode icons
var KindIcons = map[types.Kind]string{
	types.KindText:  "📝",
	types.KindImage: "🖼️",
}

// KindColors maps entry kinds to colors
var KindColors = map[types.Kind]string{
	types.KindText:  Cyan,
	types.KindImage: Magenta,
}
