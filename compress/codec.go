package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/internal/pool"
)

// Compressor wraps a whole file in a container.
type Compressor interface {
	// Compress returns data wrapped in the codec's container format.
	// The returned slice is newly allocated and owned by the caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor removes a container.
type Decompressor interface {
	// Decompress returns the payload of a complete container.
	// The returned slice is newly allocated and owned by the caller.
	Decompress(data []byte) ([]byte, error)
	// NewReader streams the payload of the container read from r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var (
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicGzip   = []byte{0x1f, 0x8b}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
	magicSav    = []byte("$FL2")
)

// SniffSize is the number of leading bytes Sniff needs to tell every
// container apart.
const SniffSize = 10

// Sniff identifies the container from the leading bytes of a file.
// ok is false when no known container or system file signature matches.
func Sniff(prefix []byte) (t format.ContainerType, ok bool) {
	switch {
	case bytes.HasPrefix(prefix, magicSav):
		return format.ContainerNone, true
	case bytes.HasPrefix(prefix, magicZstd):
		return format.ContainerZstd, true
	case bytes.HasPrefix(prefix, magicS2):
		return format.ContainerS2, true
	case bytes.HasPrefix(prefix, magicSnappy):
		return format.ContainerSnappy, true
	case bytes.HasPrefix(prefix, magicLZ4):
		return format.ContainerLZ4, true
	case bytes.HasPrefix(prefix, magicGzip):
		return format.ContainerGzip, true
	default:
		return 0, false
	}
}

var builtinCodecs = map[format.ContainerType]Codec{
	format.ContainerNone:   NewNoOpCodec(),
	format.ContainerZstd:   NewZstdCodec(),
	format.ContainerS2:     NewS2Codec(),
	format.ContainerLZ4:    NewLZ4Codec(),
	format.ContainerSnappy: NewSnappyCodec(),
	format.ContainerGzip:   NewGzipCodec(),
}

// GetCodec retrieves the built-in Codec for a container type.
func GetCodec(t format.ContainerType) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, t)
}

// Decompress sniffs data and removes its container. Plain system files are
// returned unchanged.
func Decompress(data []byte) ([]byte, error) {
	t, ok := Sniff(data)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized signature % x", errs.ErrUnsupportedContainer, head(data))
	}

	codec, err := GetCodec(t)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data)
}

// readAll drains a decompressing reader through a pooled buffer and returns
// an exact-size copy.
func readAll(r io.Reader, t format.ContainerType) ([]byte, error) {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", t, err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

func head(data []byte) []byte {
	if len(data) > SniffSize {
		return data[:SniffSize]
	}

	return data
}
