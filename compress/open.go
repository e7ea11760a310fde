package compress

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/format"
)

// File is a feeder over a possibly wrapped system file.
type File struct {
	feeder.Feeder
	// Container is the wrapper the file was stored in.
	Container format.ContainerType
	closer    io.Closer
}

// Close releases the underlying file handle, if any. It is safe to call
// more than once.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}

	return f.closer.Close()
}

// Open opens path. Plain system files are read through a FileFeeder;
// wrapped files are decompressed into memory.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	prefix := make([]byte, SniffSize)
	n, err := io.ReadFull(file, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t, ok := Sniff(prefix[:n])
	if !ok {
		file.Close()
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, path)
	}

	if t == format.ContainerNone {
		file.Close()

		f, err := feeder.NewFileFeeder(path)
		if err != nil {
			return nil, err
		}

		return &File{Feeder: f, Container: t, closer: f}, nil
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}

	data, err := decompressStream(file, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{Feeder: feeder.NewBufferFeeder(data), Container: t}, nil
}

// OpenReader reads a whole system file from r, removing its container.
func OpenReader(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(SniffSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	t, ok := Sniff(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized signature % x", errs.ErrUnsupportedContainer, prefix)
	}

	data, err := decompressStream(br, t)
	if err != nil {
		return nil, err
	}

	return &File{Feeder: feeder.NewBufferFeeder(data), Container: t}, nil
}

func decompressStream(r io.Reader, t format.ContainerType) ([]byte, error) {
	codec, err := GetCodec(t)
	if err != nil {
		return nil, err
	}

	zr, err := codec.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return readAll(zr, t)
}
