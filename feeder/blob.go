package feeder

import (
	"context"
	"fmt"
	"io"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/internal/options"
)

// DefaultPageSize is the reload window of a BlobFeeder.
const DefaultPageSize = 1000

// PageSource is a random-access byte source of known size whose reads may
// block on I/O, such as an object in remote storage.
type PageSource interface {
	// Size returns the total length of the source.
	Size() int64
	// ReadAt reads len(p) bytes starting at off. It follows the io.ReaderAt
	// contract: a short read returns a non-nil error.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
}

// BlobFeeder reads a PageSource through a reload window. Reads that fit in
// the current window are served from memory; otherwise the window is
// refilled starting at the cursor. Reads larger than a window bypass it.
type BlobFeeder struct {
	ctx      context.Context //nolint:containedctx
	src      PageSource
	pageSize int

	window []byte // bytes [offset, offset+len(window)) of the source
	offset int64
	cursor int64
}

var _ Feeder = (*BlobFeeder)(nil)

// BlobOption configures a BlobFeeder.
type BlobOption = options.Option[*BlobFeeder]

// WithPageSize sets the reload window size in bytes.
func WithPageSize(n int) BlobOption {
	return options.New(func(b *BlobFeeder) error {
		if n <= 0 {
			return fmt.Errorf("invalid page size: %d", n)
		}
		b.pageSize = n

		return nil
	})
}

// NewBlobFeeder creates a feeder over src. Every page load uses ctx, so
// cancelling it aborts the next read that misses the window.
func NewBlobFeeder(ctx context.Context, src PageSource, opts ...BlobOption) (*BlobFeeder, error) {
	b := &BlobFeeder{
		ctx:      ctx,
		src:      src,
		pageSize: DefaultPageSize,
	}

	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *BlobFeeder) Jump(pos int64) error {
	if err := checkJump(pos, b.src.Size()); err != nil {
		return err
	}
	b.cursor = pos

	return nil
}

func (b *BlobFeeder) Next(n int) ([]byte, error) {
	if err := checkNext(b.cursor, n, b.src.Size()); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	if n == 0 {
		return out, nil
	}

	if !b.covers(b.cursor, n) {
		if n > b.pageSize {
			if err := b.read(out, b.cursor); err != nil {
				return nil, err
			}
			b.cursor += int64(n)

			return out, nil
		}

		if err := b.reload(); err != nil {
			return nil, err
		}
	}

	start := b.cursor - b.offset
	copy(out, b.window[start:start+int64(n)])
	b.cursor += int64(n)

	return out, nil
}

func (b *BlobFeeder) Position() int64 {
	return b.cursor
}

func (b *BlobFeeder) Done() bool {
	return b.cursor == b.src.Size()
}

func (b *BlobFeeder) covers(pos int64, n int) bool {
	return pos >= b.offset && pos+int64(n) <= b.offset+int64(len(b.window))
}

func (b *BlobFeeder) reload() error {
	size := int64(b.pageSize)
	if remaining := b.src.Size() - b.cursor; remaining < size {
		size = remaining
	}

	if int64(cap(b.window)) < size {
		b.window = make([]byte, size)
	}
	b.window = b.window[:size]

	if err := b.read(b.window, b.cursor); err != nil {
		b.window = b.window[:0]
		return err
	}
	b.offset = b.cursor

	return nil
}

func (b *BlobFeeder) read(p []byte, off int64) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}

	n, err := b.src.ReadAt(b.ctx, p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		return fmt.Errorf("%w: read %d of %d bytes at %d", errs.ErrUnexpectedEnd, n, len(p), off)
	}

	return fmt.Errorf("read %d bytes at %d: %w", len(p), off, err)
}

// ReaderAtSource adapts an io.ReaderAt of known size to a PageSource.
type ReaderAtSource struct {
	r    io.ReaderAt
	size int64
}

var _ PageSource = (*ReaderAtSource)(nil)

// NewReaderAtSource wraps r, which must hold size bytes.
func NewReaderAtSource(r io.ReaderAt, size int64) *ReaderAtSource {
	return &ReaderAtSource{r: r, size: size}
}

func (s *ReaderAtSource) Size() int64 {
	return s.size
}

func (s *ReaderAtSource) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

// NewSourceReader returns a sequential reader over the whole of src, for
// consumers that need a stream rather than random access.
func NewSourceReader(ctx context.Context, src PageSource) *io.SectionReader {
	return io.NewSectionReader(sourceReaderAt{ctx: ctx, src: src}, 0, src.Size())
}

type sourceReaderAt struct {
	ctx context.Context //nolint:containedctx
	src PageSource
}

func (s sourceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return s.src.ReadAt(s.ctx, p, off)
}
