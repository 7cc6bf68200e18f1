package types

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// Kind identifies what an entry holds.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

const (
	// MaxTextLength is the number of characters kept from a text capture.
	MaxTextLength = 1_000_000
	// MaxImageBytes is the largest encoded image accepted into history.
	MaxImageBytes = 10_000_000
	// PreviewLength is the number of characters shown before the ellipsis.
	PreviewLength = 100
)

// Payload is the content of an entry. It is implemented only by
// TextPayload and ImagePayload.
type Payload interface {
	Kind() Kind
	Size() int
	isPayload()
}

// TextPayload holds captured text.
type TextPayload struct {
	Content string
}

func (TextPayload) Kind() Kind  { return KindText }
func (p TextPayload) Size() int { return len(p.Content) }
func (TextPayload) isPayload()  {}

// ImagePayload holds a PNG-encoded image.
type ImagePayload struct {
	Data []byte
}

func (ImagePayload) Kind() Kind  { return KindImage }
func (p ImagePayload) Size() int { return len(p.Data) }
func (ImagePayload) isPayload()  {}

// Entry is a single clipboard capture stored in history.
type Entry struct {
	ID        int64
	Payload   Payload
	CreatedAt time.Time
	Preview   string
}

// NewTextEntry builds a text entry, truncating the content to MaxTextLength
// characters. The second return value reports whether truncation happened.
func NewTextEntry(text string, now time.Time) (*Entry, bool) {
	text, truncated := TruncateRunes(text, MaxTextLength)
	return &Entry{
		Payload:   TextPayload{Content: text},
		CreatedAt: now,
		Preview:   TextPreview(text),
	}, truncated
}

// NewImageEntry builds an image entry. Images larger than MaxImageBytes are
// rejected.
func NewImageEntry(data []byte, now time.Time) (*Entry, error) {
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", len(data), MaxImageBytes)
	}
	return &Entry{
		Payload:   ImagePayload{Data: data},
		CreatedAt: now,
		Preview:   ImagePreview(len(data)),
	}, nil
}

// Kind returns the payload kind, or "" for an entry without payload.
func (e *Entry) Kind() Kind {
	if e == nil || e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Text returns the text content and true for text entries.
func (e *Entry) Text() (string, bool) {
	p, ok := e.Payload.(TextPayload)
	return p.Content, ok
}

// Image returns the image bytes and true for image entries.
func (e *Entry) Image() ([]byte, bool) {
	p, ok := e.Payload.(ImagePayload)
	return p.Data, ok
}

// DedupKey is the value two entries of the same kind must share to be
// considered duplicates. Images are keyed by their preview, so different
// images with the same rounded size collide.
func (e *Entry) DedupKey() string {
	switch p := e.Payload.(type) {
	case TextPayload:
		return p.Content
	case ImagePayload:
		return e.Preview
	default:
		return ""
	}
}

// TextPreview returns the first PreviewLength characters of text, followed
// by "..." when the text is longer.
func TextPreview(text string) string {
	head, truncated := TruncateRunes(text, PreviewLength)
	if truncated {
		return head + "..."
	}
	return head
}

// ImagePreview describes an image by its size in kilobytes.
func ImagePreview(size int) string {
	return fmt.Sprintf("Image (%d KB)", int(math.Round(float64(size)/1024)))
}

// TruncateRunes cuts s to at most n characters.
func TruncateRunes(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
