package section

import (
	"fmt"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
)

// FormatSpec is a packed print or write format: byte 2 holds the format
// type, byte 1 the field width and byte 0 the number of decimals.
type FormatSpec struct {
	Type     uint8
	Width    uint8
	Decimals uint8
}

// NewFormatSpec unpacks a format specification from its 32-bit encoding.
func NewFormatSpec(packed uint32) FormatSpec {
	return FormatSpec{
		Type:     uint8(packed >> 16), //nolint:gosec
		Width:    uint8(packed >> 8),  //nolint:gosec
		Decimals: uint8(packed),       //nolint:gosec
	}
}

// VariableRecord is the fixed part of a variable record, i.e. the 28 bytes
// following the record code.
type VariableRecord struct {
	// Type is 0 for numeric, 1-255 for a string of that width and -1 for a
	// continuation slot of the preceding string.
	Type int32 // byte offset 0-3
	// HasLabel is non-zero when a variable label follows.
	HasLabel int32 // byte offset 4-7
	// MissingCount is the missing value indicator: 0 none, 1-3 discrete
	// values, -2 a range, -3 a range plus one discrete value.
	MissingCount int32 // byte offset 8-11
	// Print is the print format.
	Print FormatSpec // byte offset 12-15
	// Write is the write format.
	Write FormatSpec // byte offset 16-19
	// Name is the 8-byte short variable name, trimmed.
	Name string // byte offset 20-27
}

// Parse parses the variable record body from a byte slice.
//
// Parameters:
//   - data: Byte slice of exactly VariableRecordSize bytes
//   - engine: Byte order of the file
//
// Returns:
//   - error: ErrInvalidVariableRecord or ErrInvalidMissingCount
func (v *VariableRecord) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != VariableRecordSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidVariableRecord, VariableRecordSize, len(data))
	}

	v.Type = endian.Int32(engine, data[0:4])
	v.HasLabel = endian.Int32(engine, data[4:8])
	v.MissingCount = endian.Int32(engine, data[8:12])
	v.Print = NewFormatSpec(engine.Uint32(data[12:16]))
	v.Write = NewFormatSpec(engine.Uint32(data[16:20]))
	v.Name = TrimText(data[20:28])

	if v.Type < format.VariableContinuation || v.Type > 255 {
		return fmt.Errorf("%w: type code %d", errs.ErrInvalidVariableRecord, v.Type)
	}

	return v.validateMissing()
}

func (v *VariableRecord) validateMissing() error {
	switch {
	case v.MissingCount >= 0 && v.MissingCount <= 3:
		return nil
	case v.Type == 0 && (v.MissingCount == -2 || v.MissingCount == -3):
		return nil
	default:
		return fmt.Errorf("%w: %d for type %d", errs.ErrInvalidMissingCount, v.MissingCount, v.Type)
	}
}

// IsNumeric reports whether the slot holds a numeric variable.
func (v *VariableRecord) IsNumeric() bool {
	return v.Type == 0
}

// IsContinuation reports whether the slot continues a preceding long string.
func (v *VariableRecord) IsContinuation() bool {
	return v.Type == format.VariableContinuation
}

// MissingSlots returns the number of 8-byte missing values that follow the
// record (and its label, if any).
func (v *VariableRecord) MissingSlots() int {
	if v.MissingCount < 0 {
		return int(-v.MissingCount)
	}

	return int(v.MissingCount)
}

// LabelPadding returns length rounded up to the next multiple of 4, the
// number of bytes a variable label of that length occupies.
func LabelPadding(length int) int {
	if rem := length % 4; rem != 0 {
		return length + 4 - rem
	}

	return length
}
