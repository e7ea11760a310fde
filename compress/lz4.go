package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/mhermher/savvy/format"
)

// lz4ReaderPool pools frame readers; lz4.Reader keeps block buffers that
// benefit from reuse.
var lz4ReaderPool = sync.Pool{
	New: func() any {
		return lz4.NewReader(nil)
	},
}

// LZ4Codec handles LZ4 frames.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates an LZ4 codec.
//
// Returns:
//   - LZ4Codec: New LZ4 codec instance
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress wraps data in an LZ4 frame.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decodes a complete LZ4 frame using a pooled reader.
//
// Parameters:
//   - data: LZ4 frame
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: Frame decoding error if any
func (c LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr, _ := lz4ReaderPool.Get().(*lz4.Reader)
	defer lz4ReaderPool.Put(zr)

	zr.Reset(bytes.NewReader(data))

	return readAll(zr, format.ContainerLZ4)
}

// NewReader streams the LZ4 frame read from r.
func (c LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
