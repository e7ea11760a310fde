//go:build gozstd && cgo

package compress

import (
	"fmt"
	"io"

	"github.com/valyala/gozstd"

	"github.com/mhermher/savvy/format"
)

// Compress wraps data in a zstd frame at the default level.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decodes data with libzstd.
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", format.ContainerZstd, err)
	}

	return decompressed, nil
}

// NewReader streams the frames read from r. Close releases the C decoder.
func (c ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{Reader: gozstd.NewReader(r)}, nil
}

type gozstdReader struct {
	*gozstd.Reader
}

func (r *gozstdReader) Close() error {
	r.Release()
	return nil
}
