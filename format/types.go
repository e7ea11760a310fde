// Package format defines the numeric codes of the SPSS system file format.
package format

import "fmt"

type (
	RecordType      int32
	Subcode         int32
	Opcode          uint8
	Measure         int32
	Alignment       int32
	CompressionMode int32
	ContainerType   uint8
)

const (
	RecordVariable        RecordType = 2   // RecordVariable introduces one variable slot.
	RecordValueLabels     RecordType = 3   // RecordValueLabels holds a value label table.
	RecordValueLabelIndex RecordType = 4   // RecordValueLabelIndex follows every value label table.
	RecordDocument        RecordType = 6   // RecordDocument holds 80-byte document lines.
	RecordExtension       RecordType = 7   // RecordExtension is a sub-coded auxiliary record.
	RecordTerminator      RecordType = 999 // RecordTerminator ends the dictionary.
)

const (
	SubcodeIntegerInfo     Subcode = 3
	SubcodeFloatInfo       Subcode = 4
	SubcodeDisplay         Subcode = 11
	SubcodeLongNames       Subcode = 13
	SubcodeLongWidths      Subcode = 14
	SubcodeEncoding        Subcode = 20
	SubcodeLongValueLabels Subcode = 21
)

const (
	OpcodePadding Opcode = 0   // OpcodePadding is skipped.
	OpcodeEnd     Opcode = 252 // OpcodeEnd marks the end of the case stream.
	OpcodeLiteral Opcode = 253 // OpcodeLiteral is followed by a raw 8-byte value.
	OpcodeBlank   Opcode = 254 // OpcodeBlank is an all-blank string slot.
	OpcodeSysmis  Opcode = 255 // OpcodeSysmis is the system-missing value.
)

const (
	MeasureUnknown Measure = 0
	MeasureNominal Measure = 1
	MeasureOrdinal Measure = 2
	MeasureScale   Measure = 3
)

const (
	AlignLeft   Alignment = 0
	AlignRight  Alignment = 1
	AlignCenter Alignment = 2
)

const (
	CompressionNone     CompressionMode = 0 // CompressionNone stores raw 8-byte cells.
	CompressionBytecode CompressionMode = 1 // CompressionBytecode is the biased opcode scheme.
	CompressionZlib     CompressionMode = 2 // CompressionZlib wraps bytecode blocks in zlib.
)

const (
	ContainerNone   ContainerType = 0x1 // ContainerNone is a plain .sav file.
	ContainerZstd   ContainerType = 0x2 // ContainerZstd is a zstd frame.
	ContainerS2     ContainerType = 0x3 // ContainerS2 is a framed s2 stream.
	ContainerLZ4    ContainerType = 0x4 // ContainerLZ4 is an lz4 frame.
	ContainerSnappy ContainerType = 0x5 // ContainerSnappy is a framed snappy stream.
	ContainerGzip   ContainerType = 0x6 // ContainerGzip is a gzip member.
)

// VariableContinuation is the type code of a slot that continues the
// preceding long string variable.
const VariableContinuation int32 = -1

func (r RecordType) String() string {
	switch r {
	case RecordVariable:
		return "Variable"
	case RecordValueLabels:
		return "ValueLabels"
	case RecordValueLabelIndex:
		return "ValueLabelIndex"
	case RecordDocument:
		return "Document"
	case RecordExtension:
		return "Extension"
	case RecordTerminator:
		return "Terminator"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(r))
	}
}

func (s Subcode) String() string {
	switch s {
	case SubcodeIntegerInfo:
		return "IntegerInfo"
	case SubcodeFloatInfo:
		return "FloatInfo"
	case SubcodeDisplay:
		return "Display"
	case SubcodeLongNames:
		return "LongNames"
	case SubcodeLongWidths:
		return "LongWidths"
	case SubcodeEncoding:
		return "Encoding"
	case SubcodeLongValueLabels:
		return "LongValueLabels"
	default:
		return fmt.Sprintf("Subcode(%d)", int32(s))
	}
}

func (m Measure) String() string {
	switch m {
	case MeasureNominal:
		return "Nominal"
	case MeasureOrdinal:
		return "Ordinal"
	case MeasureScale:
		return "Scale"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the three defined measurement levels.
func (m Measure) Valid() bool {
	return m >= MeasureNominal && m <= MeasureScale
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignCenter:
		return "Center"
	default:
		return "Unknown"
	}
}

func (c CompressionMode) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionBytecode:
		return "Bytecode"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

func (c ContainerType) String() string {
	switch c {
	case ContainerNone:
		return "None"
	case ContainerZstd:
		return "Zstd"
	case ContainerS2:
		return "S2"
	case ContainerLZ4:
		return "LZ4"
	case ContainerSnappy:
		return "Snappy"
	case ContainerGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}
