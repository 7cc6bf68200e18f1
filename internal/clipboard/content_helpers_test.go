package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "0102-2", fingerprint([]byte{1, 2}))

	data := make([]byte, 20)
	data[0] = 0xff
	assert.Equal(t, "ff000000000000000000000000000000-20", fingerprint(data))

	// Same prefix, different length.
	assert.NotEqual(t, fingerprint(make([]byte, 32)), fingerprint(make([]byte, 33)))
}

func TestIsPNG(t *testing.T) {
	assert.True(t, isPNG(append(append([]byte{}, pngMagic...), 0, 0)))
	assert.False(t, isPNG([]byte("GIF89a")))
	assert.False(t, isPNG(nil))
}

func TestHeadlessClipboard(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	assert.Equal(t, "headless", m.Backend())

	var c Clipboard = headlessClipboard{}
	text, err := c.ReadText()
	assert.NoError(t, err)
	assert.Empty(t, text)
	img, err := c.ReadImage()
	assert.NoError(t, err)
	assert.Nil(t, img)
	assert.NoError(t, c.WriteText("dropped"))
}
