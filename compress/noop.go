package compress

import (
	"io"
)

// NoOpCodec passes plain system files through unchanged.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a passthrough codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns a copy of data.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// Decompress returns a copy of data.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// NewReader returns r unchanged.
func (c NoOpCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
