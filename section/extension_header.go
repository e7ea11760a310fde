package section

import (
	"fmt"
	"math"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
)

// ExtensionHeader is the sub-header of an extension (code 7) record.
type ExtensionHeader struct {
	Subcode format.Subcode // byte offset 0-3
	Size    int32          // byte offset 4-7, element size
	Count   int32          // byte offset 8-11, element count
}

// Parse parses the extension sub-header from a byte slice.
func (e *ExtensionHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != ExtensionHeaderSize {
		return fmt.Errorf("%w: extension header expected %d bytes, got %d",
			errs.ErrInvalidHeaderSize, ExtensionHeaderSize, len(data))
	}

	e.Subcode = format.Subcode(endian.Int32(engine, data[0:4]))
	e.Size = endian.Int32(engine, data[4:8])
	e.Count = endian.Int32(engine, data[8:12])

	if e.Size < 0 || e.Count < 0 {
		return fmt.Errorf("%w: subcode %d size=%d count=%d", errs.ErrNegativeCount, e.Subcode, e.Size, e.Count)
	}

	if int64(e.Size)*int64(e.Count) > math.MaxInt32 {
		return fmt.Errorf("%w: subcode %d payload of %d bytes", errs.ErrRecordSizeMismatch,
			e.Subcode, int64(e.Size)*int64(e.Count))
	}

	return nil
}

// Len returns the payload length in bytes.
func (e *ExtensionHeader) Len() int {
	return int(e.Size) * int(e.Count)
}

// Expect returns ErrRecordSizeMismatch unless the payload is exactly n bytes.
func (e *ExtensionHeader) Expect(n int) error {
	if e.Len() != n {
		return fmt.Errorf("%w: subcode %s expected %d bytes, got %d", errs.ErrRecordSizeMismatch, e.Subcode, n, e.Len())
	}

	return nil
}
