package compress

import (
	"bytes"
	"io"

	"github.com/golang/snappy"

	"github.com/mhermher/savvy/format"
)

// SnappyCodec handles the framed Snappy stream format.
type SnappyCodec struct{}

var _ Codec = (*SnappyCodec)(nil)

// NewSnappyCodec creates a Snappy codec.
func NewSnappyCodec() SnappyCodec {
	return SnappyCodec{}
}

// Compress wraps data in a Snappy stream.
func (c SnappyCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes a complete Snappy stream.
func (c SnappyCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return readAll(snappy.NewReader(bytes.NewReader(data)), format.ContainerSnappy)
}

// NewReader streams the Snappy stream read from r.
func (c SnappyCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}
