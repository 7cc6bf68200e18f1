package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextEntry(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("ShortText", func(t *testing.T) {
		e, truncated := NewTextEntry("hello", now)
		assert.False(t, truncated)
		assert.Equal(t, KindText, e.Kind())
		assert.Equal(t, "hello", e.Preview)
		text, ok := e.Text()
		require.True(t, ok)
		assert.Equal(t, "hello", text)
		_, ok = e.Image()
		assert.False(t, ok)
	})

	t.Run("TruncatesOversizedText", func(t *testing.T) {
		e, truncated := NewTextEntry(strings.Repeat("a", 1_500_000), now)
		assert.True(t, truncated)
		text, _ := e.Text()
		assert.Len(t, text, MaxTextLength)
	})

	t.Run("PreviewEllipsis", func(t *testing.T) {
		e, _ := NewTextEntry(strings.Repeat("x", 150), now)
		assert.Equal(t, strings.Repeat("x", 100)+"...", e.Preview)
	})
}

func TestTextPreviewCountsCharacters(t *testing.T) {
	text := strings.Repeat("é", 101)
	assert.Equal(t, strings.Repeat("é", 100)+"...", TextPreview(text))
	assert.Equal(t, strings.Repeat("é", 100), TextPreview(strings.Repeat("é", 100)))
}

func TestNewImageEntry(t *testing.T) {
	now := time.Now()

	e, err := NewImageEntry(make([]byte, 2048), now)
	require.NoError(t, err)
	assert.Equal(t, KindImage, e.Kind())
	assert.Equal(t, "Image (2 KB)", e.Preview)
	assert.Equal(t, e.Preview, e.DedupKey())

	_, err = NewImageEntry(make([]byte, MaxImageBytes+1), now)
	assert.Error(t, err)
}

func TestImagePreviewRounds(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{0, "Image (0 KB)"},
		{511, "Image (0 KB)"},
		{512, "Image (1 KB)"},
		{1536, "Image (2 KB)"},
		{10 * 1024 * 1024, "Image (10240 KB)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImagePreview(tt.size), "size %d", tt.size)
	}
}

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key, value string
		want       string
		wantErr    bool
	}{
		{SettingHistoryLimit, "10", "10", false},
		{SettingHistoryLimit, " 250 ", "250", false},
		{SettingHistoryLimit, "9", "", true},
		{SettingHistoryLimit, "251", "", true},
		{SettingHistoryLimit, "lots", "", true},
		{SettingLaunchAtStartup, "TRUE", "true", false},
		{SettingLaunchAtStartup, "0", "false", false},
		{SettingLaunchAtStartup, "maybe", "", true},
		{SettingGlobalShortcut, "Alt+V", "Alt+V", false},
		{SettingGlobalShortcut, "  ", "", true},
		{"theme", "dark", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := ValidateSetting(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHistoryLimit(t *testing.T) {
	assert.Equal(t, 5, ParseHistoryLimit("5"))
	assert.Equal(t, DefaultHistoryLimit, ParseHistoryLimit(""))
	assert.Equal(t, DefaultHistoryLimit, ParseHistoryLimit("0"))
	assert.Equal(t, DefaultHistoryLimit, ParseHistoryLimit("abc"))
}

func TestEntryView(t *testing.T) {
	e, _ := NewTextEntry("hello", time.UnixMilli(5))
	e.ID = 3

	v := e.View(false)
	assert.Equal(t, int64(3), v.ID)
	assert.Equal(t, KindText, v.Kind)
	assert.Equal(t, 5, v.Size)
	assert.Empty(t, v.Text)

	assert.Equal(t, "hello", e.View(true).Text)

	img, err := NewImageEntry([]byte{9, 9}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, img.View(true).Image)
	assert.Nil(t, img.View(false).Image)
}
