package feeder

import (
	"fmt"
	"io"
	"os"

	"github.com/mhermher/savvy/errs"
)

// FileFeeder reads from an open file. The handle is acquired by
// NewFileFeeder and released by Close; Close is safe to call more than once.
type FileFeeder struct {
	file   *os.File
	size   int64
	cursor int64
	closed bool
}

var (
	_ Feeder    = (*FileFeeder)(nil)
	_ io.Closer = (*FileFeeder)(nil)
)

// NewFileFeeder opens path for reading.
func NewFileFeeder(path string) (*FileFeeder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileFeeder{file: file, size: stat.Size()}, nil
}

func (f *FileFeeder) Jump(pos int64) error {
	if f.closed {
		return errs.ErrFeederClosed
	}
	if err := checkJump(pos, f.size); err != nil {
		return err
	}
	f.cursor = pos

	return nil
}

func (f *FileFeeder) Next(n int) ([]byte, error) {
	if f.closed {
		return nil, errs.ErrFeederClosed
	}
	if err := checkNext(f.cursor, n, f.size); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	read, err := f.file.ReadAt(buf, f.cursor)
	if read < n {
		if err == nil || err == io.EOF {
			return nil, fmt.Errorf("%w: read %d of %d bytes at %d", errs.ErrUnexpectedEnd, read, n, f.cursor)
		}

		return nil, fmt.Errorf("read %d bytes at %d: %w", n, f.cursor, err)
	}
	f.cursor += int64(n)

	return buf, nil
}

func (f *FileFeeder) Position() int64 {
	return f.cursor
}

func (f *FileFeeder) Done() bool {
	return f.cursor == f.size
}

// Size returns the file size captured when the file was opened.
func (f *FileFeeder) Size() int64 {
	return f.size
}

// Close releases the file handle.
func (f *FileFeeder) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	return f.file.Close()
}
