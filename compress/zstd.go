package compress

// ZstdCodec handles Zstandard frames.
//
// The default build uses the pure Go decoder from klauspost/compress with
// pooled encoders and decoders. Building with -tags gozstd (and cgo enabled)
// switches to the libzstd bindings from valyala/gozstd, which decode large
// archives faster at the cost of a cgo dependency.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstd codec.
//
// Example:
//
//	codec := NewZstdCodec()
//	plain, err := codec.Decompress(archive)
//	if err != nil {
//		return err
//	}
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
