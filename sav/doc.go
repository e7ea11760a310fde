// Package sav decodes SPSS system files (.sav).
//
// A system file is a sequence of variable-length records followed by a
// compressed case stream:
//
//	+----------------------+
//	| file header (176 B)  |  magic "$FL2", counts, compression bias
//	+----------------------+
//	| variable records (2) |  one per 8-byte slot, long strings span slots
//	+----------------------+
//	| internal records     |  value labels (3), documents (6),
//	|                      |  extensions (7), until terminator (999)
//	+----------------------+
//	| case data            |  8-byte opcode blocks + 8-byte literals
//	+----------------------+
//
// Reader exposes the decode in stages: Meta reads the header, Headers adds
// the variable records, Schema adds the internal records and All decodes
// every case:
//
//	f := feeder.NewBufferFeeder(data)
//	r, err := sav.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	parsed, err := r.All()
//
// Rows are returned raw, one Value per header slot including continuation
// slots. Folding long strings, applying value labels and suppressing
// user-missing values is the job of package dataset.
package sav
