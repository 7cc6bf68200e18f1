package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Threshold is the payload size below which compression is skipped.
const Threshold = 1024 // 1KB

// ShouldCompress reports whether a payload of n bytes is worth compressing.
func ShouldCompress(n int) bool {
	return n >= Threshold
}

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed data: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
