package section

import (
	"fmt"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
)

// IntegerInfo is the payload of extension subcode 3.
type IntegerInfo struct {
	Major         int32
	Minor         int32
	Revision      int32
	Machine       int32
	FloatFormat   int32 // 1 IEEE 754, 2 IBM 370, 3 DEC VAX
	Compression   int32
	Endianness    int32 // 1 big-endian, 2 little-endian
	CharacterCode int32 // code page, e.g. 1252 or 65001
}

// Parse parses the integer info payload.
func (i *IntegerInfo) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != IntegerInfoSize {
		return fmt.Errorf("%w: integer info expected %d bytes, got %d", errs.ErrRecordSizeMismatch, IntegerInfoSize, len(data))
	}

	i.Major = endian.Int32(engine, data[0:])
	i.Minor = endian.Int32(engine, data[4:])
	i.Revision = endian.Int32(engine, data[8:])
	i.Machine = endian.Int32(engine, data[12:])
	i.FloatFormat = endian.Int32(engine, data[16:])
	i.Compression = endian.Int32(engine, data[20:])
	i.Endianness = endian.Int32(engine, data[24:])
	i.CharacterCode = endian.Int32(engine, data[28:])

	return nil
}

// FloatInfo is the payload of extension subcode 4.
type FloatInfo struct {
	Sysmis  float64
	Highest float64
	Lowest  float64
}

// Parse parses the float info payload.
func (f *FloatInfo) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != FloatInfoSize {
		return fmt.Errorf("%w: float info expected %d bytes, got %d", errs.ErrRecordSizeMismatch, FloatInfoSize, len(data))
	}

	f.Sysmis = endian.Float64(engine, data[0:])
	f.Highest = endian.Float64(engine, data[8:])
	f.Lowest = endian.Float64(engine, data[16:])

	return nil
}

// LabelIndexHeader is the block that follows every value label table.
type LabelIndexHeader struct {
	Magic int32
	Count int32
}

// Parse parses the block and checks its record code.
func (l *LabelIndexHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != LabelIndexHeaderSize {
		return fmt.Errorf("%w: label index expected %d bytes, got %d", errs.ErrInvalidHeaderSize, LabelIndexHeaderSize, len(data))
	}

	l.Magic = endian.Int32(engine, data[0:])
	l.Count = endian.Int32(engine, data[4:])

	if l.Magic != LabelIndexMagic {
		return fmt.Errorf("%w: expected %d, got %d", errs.ErrInvalidLabelMagic, LabelIndexMagic, l.Magic)
	}

	if l.Count < 0 {
		return fmt.Errorf("%w: label index count %d", errs.ErrNegativeCount, l.Count)
	}

	return nil
}
