// Package savtest builds synthetic system file images for tests.
//
// It writes only what the decoder reads: a file header, variable records,
// internal records and a bytecode case stream. It is not a general writer
// and makes no attempt to produce files other software would accept.
package savtest

import (
	"bytes"
	"math"
	"strings"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/section"
)

// Header holds the file header fields.
type Header struct {
	Product     string
	Layout      int32
	Variables   int32
	Compression int32
	WeightIndex int32
	Cases       int32
	Bias        float64
	CreatedDate string
	CreatedTime string
	Label       string
}

// DefaultHeader returns a bytecode-compressed header with bias 100.
func DefaultHeader() Header {
	return Header{
		Product:     "@(#) SPSS DATA FILE savtest",
		Layout:      2,
		Compression: 1,
		Bias:        100,
		CreatedDate: "17 Oct 26",
		CreatedTime: "12:00:00",
	}
}

// Variable is one variable record.
type Variable struct {
	// Type is 0 for numeric, the width for strings, -1 for continuations.
	Type         int32
	Name         string
	Label        string
	MissingCount int32
	// Missing holds numeric missing values, written when Type is 0.
	Missing []float64
	// MissingText holds string missing values, written when Type is not 0.
	MissingText []string
	Print       int32
	Write       int32
}

// Numeric returns a numeric variable.
func Numeric(name string) Variable {
	return Variable{Name: name, Print: 0x050802, Write: 0x050802}
}

// StringSlots returns the head slot of a string variable of the given
// width (at most 255) followed by its continuation slots.
func StringSlots(name string, width int) []Variable {
	slots := []Variable{{Type: int32(width), Name: name, Print: 0x010000 | int32(width)<<8, Write: 0x010000 | int32(width)<<8}}
	for range (width+7)/8 - 1 {
		slots = append(slots, Variable{Type: -1})
	}

	return slots
}

// VeryLongSlots returns the slots of a string wider than 255 bytes: one
// 255-wide segment per 252 bytes, named name, name1, name2 and so on.
// The width map entry must be added separately with LongWidths.
func VeryLongSlots(name string, width int) []Variable {
	segments := (width + 251) / 252

	var slots []Variable
	for i := range segments {
		seg := name
		if i > 0 {
			seg = segmentName(name, i)
		}
		segWidth := 255
		if i == segments-1 {
			segWidth = width - 252*(segments-1)
		}
		slots = append(slots, StringSlots(seg, segWidth)...)
	}

	return slots
}

func segmentName(name string, i int) string {
	if len(name) > 7 {
		name = name[:7]
	}

	return name + string(rune('0'+i%10))
}

// File is a complete system file image.
type File struct {
	// Engine defaults to little-endian.
	Engine    endian.EndianEngine
	Header    Header
	Variables []Variable
	// Records are internal records written before the terminator, built
	// with ValueLabels, Document, Extension and friends.
	Records [][]byte
	// NoTerminator omits the 999 record.
	NoTerminator bool
	// Data is the case stream, usually from Compressor.Bytes.
	Data []byte
}

// Bytes encodes the file. A zero Header.Variables is replaced by the
// number of variable records.
func (f File) Bytes() []byte {
	e := f.engine()
	h := f.Header
	if h.Variables == 0 {
		h.Variables = int32(len(f.Variables))
	}

	out := FileHeader(e, h)
	for _, v := range f.Variables {
		out = append(out, VariableRecord(e, v)...)
	}
	for _, r := range f.Records {
		out = append(out, r...)
	}
	if !f.NoTerminator {
		out = append(out, Terminator(e)...)
	}

	return append(out, f.Data...)
}

func (f File) engine() endian.EndianEngine {
	if f.Engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return f.Engine
}

// FileHeader encodes the 176-byte file header.
func FileHeader(e endian.EndianEngine, h Header) []byte {
	out := make([]byte, 0, section.FileHeaderSize)
	out = append(out, section.FileMagic...)
	out = append(out, pad(h.Product, section.LayoutOffset-section.ProductOffset, ' ')...)
	out = endian.AppendInt32(e, out, h.Layout)
	out = endian.AppendInt32(e, out, h.Variables)
	out = endian.AppendInt32(e, out, h.Compression)
	out = endian.AppendInt32(e, out, h.WeightIndex)
	out = endian.AppendInt32(e, out, h.Cases)
	out = endian.AppendFloat64(e, out, h.Bias)
	out = append(out, pad(h.CreatedDate, section.TimeOffset-section.DateOffset, ' ')...)
	out = append(out, pad(h.CreatedTime, section.LabelOffset-section.TimeOffset, ' ')...)
	out = append(out, pad(h.Label, section.LabelEnd-section.LabelOffset, ' ')...)

	return append(out, make([]byte, section.FileHeaderSize-len(out))...)
}

// VariableRecord encodes a code 2 record with its label and missing blocks.
func VariableRecord(e endian.EndianEngine, v Variable) []byte {
	out := endian.AppendInt32(e, nil, 2)
	out = endian.AppendInt32(e, out, v.Type)
	hasLabel := int32(0)
	if v.Label != "" {
		hasLabel = 1
	}
	out = endian.AppendInt32(e, out, hasLabel)
	out = endian.AppendInt32(e, out, v.MissingCount)
	out = endian.AppendInt32(e, out, v.Print)
	out = endian.AppendInt32(e, out, v.Write)
	out = append(out, pad(v.Name, 8, ' ')...)

	if v.Label != "" {
		out = endian.AppendInt32(e, out, int32(len(v.Label)))
		out = append(out, pad(v.Label, section.LabelPadding(len(v.Label)), ' ')...)
	}

	if v.Type == 0 {
		for _, m := range v.Missing {
			out = endian.AppendFloat64(e, out, m)
		}
	} else {
		for _, m := range v.MissingText {
			out = append(out, pad(m, 8, ' ')...)
		}
	}

	return out
}

// Label is one value label entry.
type Label struct {
	Value float64
	// Raw overrides Value with 8 raw bytes, for string variables.
	Raw   string
	Label string
}

// ValueLabels encodes a code 3 record and the code 4 index block that
// follows it.
func ValueLabels(e endian.EndianEngine, labels []Label, indices ...int32) []byte {
	out := endian.AppendInt32(e, nil, 3)
	out = endian.AppendInt32(e, out, int32(len(labels)))
	for _, l := range labels {
		if l.Raw != "" {
			out = append(out, pad(l.Raw, 8, ' ')...)
		} else {
			out = endian.AppendFloat64(e, out, l.Value)
		}
		n := len(l.Label)
		padded := n
		if rem := (n + 1) % 8; rem != 0 {
			padded += 8 - rem
		}
		out = append(out, byte(n))
		out = append(out, pad(l.Label, padded, ' ')...)
	}

	out = endian.AppendInt32(e, out, section.LabelIndexMagic)
	out = endian.AppendInt32(e, out, int32(len(indices)))
	for _, i := range indices {
		out = endian.AppendInt32(e, out, i)
	}

	return out
}

// Document encodes a code 6 record.
func Document(e endian.EndianEngine, lines ...string) []byte {
	out := endian.AppendInt32(e, nil, 6)
	out = endian.AppendInt32(e, out, int32(len(lines)))
	for _, line := range lines {
		out = append(out, pad(line, section.DocumentLineSize, ' ')...)
	}

	return out
}

// Extension encodes a code 7 record. The payload is written as given, so
// size*count need not match it.
func Extension(e endian.EndianEngine, subcode, size, count int32, payload []byte) []byte {
	out := endian.AppendInt32(e, nil, 7)
	out = endian.AppendInt32(e, out, subcode)
	out = endian.AppendInt32(e, out, size)
	out = endian.AppendInt32(e, out, count)

	return append(out, payload...)
}

// IntegerInfo encodes a subcode 3 record with the given character code.
func IntegerInfo(e endian.EndianEngine, characterCode int32) []byte {
	var payload []byte
	for _, v := range []int32{20, 0, 0, -1, 1, 1, 2, characterCode} {
		payload = endian.AppendInt32(e, payload, v)
	}

	return Extension(e, 3, 4, 8, payload)
}

// FloatInfo encodes a subcode 4 record with the usual sentinel values.
func FloatInfo(e endian.EndianEngine) []byte {
	var payload []byte
	payload = endian.AppendFloat64(e, payload, -math.MaxFloat64)
	payload = endian.AppendFloat64(e, payload, math.MaxFloat64)
	payload = endian.AppendFloat64(e, payload, math.Nextafter(-math.MaxFloat64, 0))

	return Extension(e, 4, 8, 3, payload)
}

// Display is one display table entry.
type Display struct {
	Measure   int32
	Width     int32
	Alignment int32
}

// DisplayTable encodes a subcode 11 record.
func DisplayTable(e endian.EndianEngine, entries ...Display) []byte {
	var payload []byte
	for _, d := range entries {
		payload = endian.AppendInt32(e, payload, d.Measure)
		payload = endian.AppendInt32(e, payload, d.Width)
		payload = endian.AppendInt32(e, payload, d.Alignment)
	}

	return Extension(e, 11, 4, int32(3*len(entries)), payload)
}

// LongNames encodes a subcode 13 record from short=long pairs.
func LongNames(e endian.EndianEngine, pairs ...string) []byte {
	return keyValues(e, 13, pairs)
}

// LongWidths encodes a subcode 14 record from name=width pairs. Every
// entry is NUL padded and tab terminated the way writers emit it.
func LongWidths(e endian.EndianEngine, pairs ...string) []byte {
	var buf bytes.Buffer
	for _, p := range pairs {
		buf.WriteString(p)
		buf.WriteString("\x00\t")
	}

	return Extension(e, 14, 1, int32(buf.Len()), buf.Bytes())
}

// Encoding encodes a subcode 20 record naming the character set.
func Encoding(e endian.EndianEngine, name string) []byte {
	return Extension(e, 20, 1, int32(len(name)), []byte(name))
}

func keyValues(e endian.EndianEngine, subcode int32, pairs []string) []byte {
	payload := []byte(strings.Join(pairs, "\t"))

	return Extension(e, subcode, 1, int32(len(payload)), payload)
}

// Terminator encodes the 999 record and its 4-byte padding.
func Terminator(e endian.EndianEngine) []byte {
	out := endian.AppendInt32(e, nil, 999)

	return endian.AppendInt32(e, out, 0)
}

func pad(s string, n int, fill byte) []byte {
	out := bytes.Repeat([]byte{fill}, n)
	copy(out, s)

	return out
}
