package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/cliprecall/internal/types"
)

// Formatter is the main formatting orchestrator that delegates to specialized formatters
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
	}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatEntry formats a single history entry
func (f *Formatter) FormatEntry(entry *types.EntryView) string {
	if entry == nil {
		return ColorizeIf("No content", Gray, f.options.UseColors)
	}

	header := f.formatHeader(entry)
	if f.options.Compact {
		preview := f.formatPreview(entry, 50)
		return header + " " + DimIf(preview, f.options.UseColors)
	}

	parts := []string{header}
	if f.options.ShowMetadata {
		parts = append(parts, f.formatMetadata(entry))
	}
	if content := f.formatContent(entry); content != "" {
		parts = append(parts, CreateBox("Content", content, f.options))
	}
	return strings.Join(parts, "\n")
}

// FormatEntryList formats multiple entries, newest first as given
func (f *Formatter) FormatEntryList(entries []types.EntryView) string {
	if len(entries) == 0 {
		return ColorizeIf("No clipboard history", Gray, f.options.UseColors)
	}

	parts := []string{f.formatListHeader(len(entries)), ""}
	for i := range entries {
		parts = append(parts, f.FormatEntry(&entries[i]))
		if !f.options.Compact && i < len(entries)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}
	return strings.Join(parts, "\n")
}

// formatHeader creates the header with id, icon and kind
func (f *Formatter) formatHeader(entry *types.EntryView) string {
	parts := []string{BoldIf(fmt.Sprintf("#%d", entry.ID), f.options.UseColors)}

	if f.options.UseIcons {
		if icon, ok := KindIcons[entry.Kind]; ok {
			parts = append(parts, icon)
		}
	}

	kind := string(entry.Kind)
	if color, ok := KindColors[entry.Kind]; ok {
		kind = ColorizeIf(kind, color, f.options.UseColors)
	}
	parts = append(parts, kind)

	return strings.Join(parts, " ")
}

func (f *Formatter) formatMetadata(entry *types.EntryView) string {
	parts := []string{
		fmt.Sprintf("Created: %s", FormatRelativeTime(entry.CreatedAt)),
		fmt.Sprintf("Size: %s", FormatSize(int64(entry.Size))),
	}
	if entry.Kind == types.KindText && entry.Text == "" {
		parts = append(parts, fmt.Sprintf("Preview: %s", FormatTextPreview(entry, 40)))
	}
	return DimIf(strings.Join(parts, " • "), f.options.UseColors)
}

func (f *Formatter) formatContent(entry *types.EntryView) string {
	switch entry.Kind {
	case types.KindImage:
		return FormatImage(entry, f.options)
	default:
		return FormatText(entry, f.options)
	}
}

func (f *Formatter) formatPreview(entry *types.EntryView, maxLen int) string {
	switch entry.Kind {
	case types.KindImage:
		return FormatImagePreview(entry, maxLen)
	default:
		preview := FormatTextPreview(entry, maxLen)
		if preview == "" {
			return "(empty)"
		}
		return preview
	}
}

func (f *Formatter) formatListHeader(count int) string {
	title := fmt.Sprintf("Clipboard History (%d entries)", count)
	if f.options.UseIcons {
		title = "📋 " + title
	}
	return ColorizeIf(title, BrightBlue, f.options.UseColors)
}

// FormatEntry formats a single entry with given options
func FormatEntry(entry *types.EntryView, opts Options) string {
	return New(opts).FormatEntry(entry)
}

// FormatEntryList formats multiple entries with given options
func FormatEntryList(entries []types.EntryView, opts Options) string {
	return New(opts).FormatEntryList(entries)
}
