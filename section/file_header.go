package section

import (
	"fmt"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
)

// FileHeader represents the fixed-size header at the start of a system file.
type FileHeader struct {
	// Magic is the file signature, always FileMagic for supported files.
	Magic string // byte offset 0-3
	// Product identifies the software that wrote the file.
	Product string // byte offset 4-63
	// Layout is the layout code, 2 or 3.
	Layout int32 // byte offset 64-67
	// Variables is the number of variable slots per case, continuation
	// segments included. Some writers store -1.
	Variables int32 // byte offset 68-71
	// Compression is the case data compression mode.
	Compression format.CompressionMode // byte offset 72-75
	// WeightIndex is the 1-based slot index of the weight variable, 0 if none.
	WeightIndex int32 // byte offset 76-79
	// Cases is the number of cases, -1 if unknown.
	Cases int32 // byte offset 80-83
	// Bias is the compression bias, normally 100.
	Bias float64 // byte offset 84-91
	// CreatedDate is the creation date as written, e.g. "01 Jan 24".
	CreatedDate string // byte offset 92-100
	// CreatedTime is the creation time as written, e.g. "13:45:00".
	CreatedTime string // byte offset 101-108
	// Label is the file label.
	Label string // byte offset 109-172

	engine endian.EndianEngine
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly FileHeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagic, ErrUnsupportedLayout or
//     ErrUnsupportedCompression
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidHeaderSize, FileHeaderSize, len(data))
	}

	h.Magic = string(data[MagicOffset:ProductOffset])
	if h.Magic != FileMagic {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidMagic, FileMagic, h.Magic)
	}

	engine, ok := endian.Detect(data[LayoutOffset:VariablesOffset])
	if !ok {
		return fmt.Errorf("%w: %v", errs.ErrUnsupportedLayout, data[LayoutOffset:VariablesOffset])
	}
	h.engine = engine

	h.Product = TrimText(data[ProductOffset:LayoutOffset])
	h.Layout = endian.Int32(engine, data[LayoutOffset:])
	h.Variables = endian.Int32(engine, data[VariablesOffset:])
	h.Compression = format.CompressionMode(endian.Int32(engine, data[CompressionOffset:]))
	h.WeightIndex = endian.Int32(engine, data[WeightOffset:])
	h.Cases = endian.Int32(engine, data[CasesOffset:])
	h.Bias = endian.Float64(engine, data[BiasOffset:])
	h.CreatedDate = TrimText(data[DateOffset:TimeOffset])
	h.CreatedTime = TrimText(data[TimeOffset:LabelOffset])
	h.Label = TrimText(data[LabelOffset:LabelEnd])

	return h.Validate()
}

// Validate checks that the header describes a file the case decoder supports.
func (h *FileHeader) Validate() error {
	if h.Compression != format.CompressionBytecode {
		return fmt.Errorf("%w: %s (%d)", errs.ErrUnsupportedCompression, h.Compression, int32(h.Compression))
	}

	return nil
}

// Engine returns the byte order detected from the layout code.
func (h *FileHeader) Engine() endian.EndianEngine {
	if h.engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return h.engine
}

// ParseFileHeader parses a FileHeader from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least FileHeaderSize bytes)
//
// Returns:
//   - FileHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize or validation errors
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidHeaderSize, FileHeaderSize, len(data))
	}

	h := FileHeader{}
	if err := h.Parse(data[:FileHeaderSize]); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
