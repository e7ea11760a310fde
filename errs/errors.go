// Package errs defines the sentinel errors returned by savvy.
//
// Errors fall into three categories that mirror how a system file can fail
// to decode:
//
//   - ErrFormat: the bytes are readable but do not describe a valid file
//     (bad magic, unknown record code, size mismatch, unsupported mode).
//   - ErrBounds: the byte cursor was asked to move or read past the input.
//   - ErrDecode: the compressed case stream is inconsistent with the schema.
//
// Every specific sentinel wraps exactly one category, so callers can match
// either level with errors.Is:
//
//	if errors.Is(err, errs.ErrFormat) {
//	    // not a usable .sav file
//	}
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	ErrFormat = errors.New("format error")
	ErrBounds = errors.New("bounds error")
	ErrDecode = errors.New("decode error")
)

// Format errors.
var (
	ErrInvalidMagic           = fmt.Errorf("%w: invalid file signature", ErrFormat)
	ErrInvalidHeaderSize      = fmt.Errorf("%w: invalid header size", ErrFormat)
	ErrUnsupportedCompression = fmt.Errorf("%w: unsupported compression mode", ErrFormat)
	ErrUnsupportedLayout      = fmt.Errorf("%w: unsupported layout code", ErrFormat)
	ErrInvalidVariableRecord  = fmt.Errorf("%w: invalid variable record", ErrFormat)
	ErrVariableCountMismatch  = fmt.Errorf("%w: variable count mismatch", ErrFormat)
	ErrInvalidMissingCount    = fmt.Errorf("%w: invalid missing value indicator", ErrFormat)
	ErrUnknownRecord          = fmt.Errorf("%w: unknown record code", ErrFormat)
	ErrRecordSizeMismatch     = fmt.Errorf("%w: record size mismatch", ErrFormat)
	ErrInvalidLabelMagic      = fmt.Errorf("%w: invalid value label index marker", ErrFormat)
	ErrInvalidLabelIndex      = fmt.Errorf("%w: invalid value label variable index", ErrFormat)
	ErrInvalidDisplayTable    = fmt.Errorf("%w: invalid display table", ErrFormat)
	ErrInvalidKeyValue        = fmt.Errorf("%w: invalid key=value payload", ErrFormat)
	ErrNegativeCount          = fmt.Errorf("%w: negative element count", ErrFormat)
	ErrUnsupportedContainer   = fmt.Errorf("%w: unsupported container compression", ErrFormat)
	ErrInvalidSegments        = fmt.Errorf("%w: invalid long string segments", ErrFormat)
)

// Bounds errors.
var (
	ErrUnexpectedEnd = fmt.Errorf("%w: unexpected end of input", ErrBounds)
	ErrOutOfRange    = fmt.Errorf("%w: position out of range", ErrBounds)
	ErrFeederClosed  = fmt.Errorf("%w: feeder is closed", ErrBounds)
)

// Decode errors.
var (
	ErrUnexpectedTerminator = fmt.Errorf("%w: unexpected end-of-records opcode", ErrDecode)
	ErrOpcodeTypeMismatch   = fmt.Errorf("%w: opcode does not match column type", ErrDecode)
	ErrUnsupportedOpcode    = fmt.Errorf("%w: unsupported opcode for column type", ErrDecode)
)

// Dataset errors.
var (
	ErrColumnNotFound    = errors.New("column not found")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrInvalidColumnName = errors.New("invalid column name")
	ErrRowOutOfRange     = errors.New("row index out of range")
	ErrInvalidCharset    = errors.New("invalid character set")
)

// Export errors.
var (
	ErrInvalidTableName = errors.New("invalid table name")
	ErrTooManyColumns   = errors.New("too many columns for one table")
)

// Storage errors.
var (
	ErrObjectNotFound = errors.New("object not found")
)
