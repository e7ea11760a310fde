package sav

import (
	"math"

	"github.com/RoaringBitmap/roaring"

	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/section"
)

// Meta is the file-level record decoded from the fixed file header.
type Meta struct {
	Magic       string
	Product     string
	Layout      int32
	Variables   int32
	Compression format.CompressionMode
	WeightIndex int32
	Cases       int32
	Bias        float64
	CreatedDate string
	CreatedTime string
	Label       string
}

func newMeta(h section.FileHeader) Meta {
	return Meta{
		Magic:       h.Magic,
		Product:     h.Product,
		Layout:      h.Layout,
		Variables:   h.Variables,
		Compression: h.Compression,
		WeightIndex: h.WeightIndex,
		Cases:       h.Cases,
		Bias:        h.Bias,
		CreatedDate: h.CreatedDate,
		CreatedTime: h.CreatedTime,
		Label:       h.Label,
	}
}

// Kind identifies which field of a Value is set.
type Kind uint8

const (
	KindNull   Kind = iota // KindNull is the system-missing value.
	KindNumber             // KindNumber holds Num.
	KindString             // KindString holds Str.
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Value is one raw cell or missing code: a number, a string or null.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null returns the system-missing value.
func Null() Value {
	return Value{}
}

// Number returns a numeric value.
func Number(v float64) Value {
	return Value{Kind: KindNumber, Num: v}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// IsNull reports whether v is system-missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Float returns the number held by v.
func (v Value) Float() (float64, bool) {
	return v.Num, v.Kind == KindNumber
}

// Text returns the string held by v.
func (v Value) Text() (string, bool) {
	return v.Str, v.Kind == KindString
}

// Any returns nil, a float64 or a string.
func (v Value) Any() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	default:
		return nil
	}
}

// Range is an inclusive pair of numeric bounds as stored in the file.
type Range struct {
	Low  float64
	High float64
}

// Missing describes the user-defined missing values of one variable slot.
type Missing struct {
	// Codes are the discrete missing values: numbers for numeric variables,
	// raw 8-byte strings for string variables.
	Codes []Value
	// Range is the numeric missing range, nil when undefined.
	Range *Range
}

// IsEmpty reports whether no missing values are defined.
func (m Missing) IsEmpty() bool {
	return len(m.Codes) == 0 && m.Range == nil
}

// Header is one variable slot. Long strings span several slots; every slot
// after the first has Code == format.VariableContinuation.
type Header struct {
	// Start is the byte offset of the variable record.
	Start int64
	// Code is 0 for numeric, 1-255 for a string of that width, -1 for a
	// continuation slot.
	Code    int32
	Name    string
	Label   string
	Print   section.FormatSpec
	Write   section.FormatSpec
	Missing Missing
}

// IsNumeric reports whether the slot holds a numeric variable.
func (h Header) IsNumeric() bool {
	return h.Code == 0
}

// IsString reports whether the slot holds string bytes, continuation slots
// included.
func (h Header) IsString() bool {
	return h.Code != 0
}

// IsContinuation reports whether the slot continues a preceding string.
func (h Header) IsContinuation() bool {
	return h.Code == format.VariableContinuation
}

// Level is one entry of a value label table.
type Level struct {
	// Key is the 8-byte value read as a double.
	Key float64
	// Raw is the same 8 bytes as stored, the key of string variables.
	Raw   [8]byte
	Label string
}

// Factor is a value label table and the slots it applies to.
type Factor struct {
	Levels []Level
	// Indices holds 1-based positions into the flattened header sequence,
	// continuation slots counted.
	Indices *roaring.Bitmap
}

// Labels returns the numeric key to label mapping. Later entries win on
// duplicate keys.
func (f Factor) Labels() map[float64]string {
	labels := make(map[float64]string, len(f.Levels))
	for _, level := range f.Levels {
		labels[level.Key] = level.Label
	}

	return labels
}

// AppliesTo reports whether the table applies to the slot at the 1-based
// flattened position pos.
func (f Factor) AppliesTo(pos int) bool {
	if f.Indices == nil || pos < 1 || int64(pos) > math.MaxUint32 {
		return false
	}

	return f.Indices.Contains(uint32(pos)) //nolint:gosec
}

// Display is one entry of the display table.
type Display struct {
	Measure   format.Measure
	Width     int32
	Alignment format.Alignment
}

// Extension is an extension record kept verbatim.
type Extension struct {
	Subcode format.Subcode
	Size    int32
	Count   int32
	Data    []byte
}

// Internal accumulates every auxiliary record between the variable records
// and the case data.
type Internal struct {
	// Integer is the integer info record, nil if absent.
	Integer *section.IntegerInfo
	// Float is the float info record, nil if absent.
	Float *section.FloatInfo
	// Display is the concatenated display table.
	Display []Display
	// Documents holds one entry per document record, each a list of lines.
	Documents [][]string
	// Labels maps short variable names to long names.
	Labels map[string]string
	// Widths maps short variable names to their full string width.
	Widths map[string]int
	// Factors are the value label tables in file order.
	Factors []Factor
	// LongValueLabels are the raw payloads of subcode 21 records.
	LongValueLabels [][]byte
	// Unknown holds every unrecognized extension record verbatim.
	Unknown []Extension
	// Finished is the byte offset where the case data begins.
	Finished int64
}

func newInternal() Internal {
	return Internal{
		Labels: make(map[string]string),
		Widths: make(map[string]int),
	}
}

// EncodingName returns the character encoding named by a subcode 20
// record, or "" if the file has none.
func (in *Internal) EncodingName() string {
	for i := len(in.Unknown) - 1; i >= 0; i-- {
		if in.Unknown[i].Subcode == format.SubcodeEncoding {
			return section.TrimText(in.Unknown[i].Data)
		}
	}

	return ""
}

// Row holds one case: a raw value per header slot, in header order.
type Row []Value

// Map returns the row keyed by header name. Slots with an empty name,
// typically continuation slots, are omitted.
func (r Row) Map(headers []Header) map[string]Value {
	m := make(map[string]Value, len(r))
	for i, v := range r {
		if i >= len(headers) {
			break
		}
		if name := headers[i].Name; name != "" {
			m[name] = v
		}
	}

	return m
}

// Schema is the decoded dictionary of a file.
type Schema struct {
	Meta     Meta
	Headers  []Header
	Internal Internal
}

// Parsed is the complete decode result handed to the dataset layer.
type Parsed struct {
	Meta     Meta
	Headers  []Header
	Internal Internal
	Rows     []Row
}
