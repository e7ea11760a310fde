// Package section parses the fixed-size parts of an SPSS system file.
//
// A system file is a sequence of variable-length records, but every record
// starts with (or consists of) a block whose size is known up front. This
// package decodes those blocks from byte slices that the caller has already
// read; it never touches a byte source itself. Variable-length tails
// (labels, missing values, value label entries, extension payloads) are read
// by package sav using the sizes these blocks report.
//
// # Layout
//
//	File header (176 bytes)
//	├─ [0,4)     magic "$FL2"
//	├─ [4,64)    product
//	├─ [64,68)   layout code (2 or 3, also selects the byte order)
//	├─ [68,72)   variable slot count
//	├─ [72,76)   compression mode (only 1 is supported)
//	├─ [76,80)   weight slot index
//	├─ [80,84)   case count
//	├─ [84,92)   compression bias
//	├─ [92,101)  creation date
//	├─ [101,109) creation time
//	└─ [109,173) file label
//
//	Variable record body (28 bytes, after the 4-byte record code 2)
//	├─ type, has-label, missing indicator, print format, write format
//	└─ 8-byte name
//
//	Extension sub-header (12 bytes, after the 4-byte record code 7)
//	└─ subcode, element size, element count
//
// All parse functions take the EndianEngine chosen from the file header.
package section
