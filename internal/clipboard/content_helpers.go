package clipboard

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const fingerprintSampleSize = 16

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// fingerprint identifies an encoded image cheaply: the hex of its first 16
// bytes joined with its length. It only has to tell consecutive clipboard
// images apart.
func fingerprint(data []byte) string {
	sample := data
	if len(sample) > fingerprintSampleSize {
		sample = sample[:fingerprintSampleSize]
	}
	return fmt.Sprintf("%s-%d", hex.EncodeToString(sample), len(data))
}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic)
}
