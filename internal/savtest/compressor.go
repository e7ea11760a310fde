package savtest

import (
	"math"
	"strings"

	"github.com/mhermher/savvy/endian"
)

// Compressor writes a bytecode case stream. Opcodes are grouped in 8-byte
// blocks and each block is followed by the literals it references.
type Compressor struct {
	engine   endian.EndianEngine
	bias     float64
	out      []byte
	block    []byte
	literals []byte
}

// NewCompressor creates a Compressor. A nil engine means little-endian.
func NewCompressor(engine endian.EndianEngine, bias float64) *Compressor {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return &Compressor{engine: engine, bias: bias}
}

// Op appends a raw opcode.
func (c *Compressor) Op(op byte) *Compressor {
	c.block = append(c.block, op)
	if len(c.block) == 8 {
		c.flush()
	}

	return c
}

// Literal appends opcode 253 and its 8-byte payload.
func (c *Compressor) Literal(raw []byte) *Compressor {
	c.literals = append(c.literals, pad(string(raw), 8, ' ')...)

	return c.Op(253)
}

// Number appends a numeric cell, compressed when it is an integer in the
// opcode range.
func (c *Compressor) Number(v float64) *Compressor {
	code := v + c.bias
	if code >= 1 && code <= 251 && code == math.Trunc(code) {
		return c.Op(byte(code))
	}

	return c.Literal(endian.AppendFloat64(c.engine, nil, v))
}

// Sysmis appends a system-missing cell.
func (c *Compressor) Sysmis() *Compressor {
	return c.Op(255)
}

// Slot appends one 8-byte string slot.
func (c *Compressor) Slot(s string) *Compressor {
	if strings.TrimRight(s, " ") == "" {
		return c.Op(254)
	}

	return c.Literal([]byte(s))
}

// Text appends every slot of a string of the given width (at most 255).
func (c *Compressor) Text(s string, width int) *Compressor {
	padded := string(pad(s, ((width+7)/8)*8, ' '))
	for i := 0; i < len(padded); i += 8 {
		c.Slot(padded[i : i+8])
	}

	return c
}

// VeryLong appends every segment of a string wider than 255 bytes, laid
// out as VeryLongSlots declares it.
func (c *Compressor) VeryLong(s string, width int) *Compressor {
	segments := (width + 251) / 252
	for i := range segments {
		segWidth := 255
		if i == segments-1 {
			segWidth = width - 252*(segments-1)
		}

		var chunk string
		if lo := 252 * i; lo < len(s) {
			chunk = s[lo:min(len(s), lo+252)]
		}
		c.Text(chunk, segWidth)
	}

	return c
}

// Bytes returns the stream. With end set, an end opcode is appended before
// the final block is padded.
func (c *Compressor) Bytes(end bool) []byte {
	if end {
		c.Op(252)
	}
	if len(c.block) > 0 {
		for len(c.block) < 8 {
			c.block = append(c.block, 0)
		}
		c.flush()
	}

	return c.out
}

func (c *Compressor) flush() {
	c.out = append(c.out, c.block...)
	c.out = append(c.out, c.literals...)
	c.block = c.block[:0]
	c.literals = c.literals[:0]
}
