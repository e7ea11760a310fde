package section

// Section sizes in bytes.
const (
	FileHeaderSize       = 176 // fixed file header
	RecordCodeSize       = 4   // leading record type code of every dictionary record
	VariableRecordSize   = 28  // variable record body following the record code
	ExtensionHeaderSize  = 12  // {subcode, element size, element count}
	IntegerInfoSize      = 32  // extension subcode 3 payload
	FloatInfoSize        = 24  // extension subcode 4 payload
	LabelIndexHeaderSize = 8   // {record code 4, index count}
	DocumentLineSize     = 80  // one document line
	SlotSize             = 8   // one case cell / one missing value / one name
	DisplayFieldCount    = 3   // {measure, width, alignment} per variable
)

// File header field offsets.
const (
	MagicOffset       = 0
	ProductOffset     = 4
	LayoutOffset      = 64
	VariablesOffset   = 68
	CompressionOffset = 72
	WeightOffset      = 76
	CasesOffset       = 80
	BiasOffset        = 84
	DateOffset        = 92
	TimeOffset        = 101
	LabelOffset       = 109
	LabelEnd          = 173
)

// FileMagic is the signature of a bytecode-compressed system file.
const FileMagic = "$FL2"

// LabelIndexMagic is the record code that must follow a value label table.
const LabelIndexMagic = 4
