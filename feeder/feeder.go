// Package feeder provides the byte cursor that every savvy parser reads
// through.
//
// A Feeder is a seekable, bounds-checked sequential byte source. Next never
// short-reads: it either returns exactly the requested number of bytes and
// advances, or fails with errs.ErrUnexpectedEnd and leaves the cursor where
// it was. Jump fails with errs.ErrOutOfRange for positions outside
// [0, size]. Backing stores differ only in where the bytes come from:
//
//   - BufferFeeder: an in-memory byte slice
//   - FileFeeder: an open file, read with ReadAt
//   - BlobFeeder: any PageSource (S3 objects, io.ReaderAt values) read
//     through a fixed-size reload window
//
// Feeders are NOT safe for concurrent use; the cursor is shared mutable
// state. Use one Feeder per goroutine.
package feeder

import (
	"fmt"

	"github.com/mhermher/savvy/errs"
)

// Feeder is the byte cursor contract.
type Feeder interface {
	// Jump moves the cursor to an absolute offset in [0, size].
	Jump(pos int64) error
	// Next returns exactly n bytes and advances the cursor by n.
	// The returned slice is owned by the caller.
	Next(n int) ([]byte, error)
	// Position returns the current absolute offset.
	Position() int64
	// Done reports whether the cursor is at the end of the input.
	Done() bool
}

func checkJump(pos, size int64) error {
	if pos < 0 || pos > size {
		return fmt.Errorf("%w: jump to %d, size %d", errs.ErrOutOfRange, pos, size)
	}

	return nil
}

func checkNext(pos int64, n int, size int64) error {
	if n < 0 {
		return fmt.Errorf("%w: negative read of %d bytes", errs.ErrOutOfRange, n)
	}
	if pos+int64(n) > size {
		return fmt.Errorf("%w: read %d bytes at %d, size %d", errs.ErrUnexpectedEnd, n, pos, size)
	}

	return nil
}
