package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/mhermher/savvy/format"
)

// S2Codec handles the framed S2 stream format.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Compress wraps data in an S2 stream.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes a complete S2 stream.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return readAll(s2.NewReader(bytes.NewReader(data)), format.ContainerS2)
}

// NewReader streams the S2 stream read from r.
func (c S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
