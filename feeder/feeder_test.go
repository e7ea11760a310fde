package feeder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhermher/savvy/errs"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}

	return data
}

// feederFactories builds every backing store over the same bytes.
func feederFactories(t *testing.T, data []byte) map[string]Feeder {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	file, err := NewFileFeeder(path)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	blob, err := NewBlobFeeder(context.Background(), NewReaderAtSource(bytes.NewReader(data), int64(len(data))), WithPageSize(7))
	require.NoError(t, err)

	return map[string]Feeder{
		"buffer": NewBufferFeeder(data),
		"file":   file,
		"blob":   blob,
	}
}

func TestFeeder_Contract(t *testing.T) {
	data := testData(100)

	for name, f := range feederFactories(t, data) {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, int64(0), f.Position())
			require.False(t, f.Done())

			// sequential reads, some crossing the blob window
			got, err := f.Next(4)
			require.NoError(t, err)
			require.Equal(t, data[0:4], got)

			got, err = f.Next(5)
			require.NoError(t, err)
			require.Equal(t, data[4:9], got)
			require.Equal(t, int64(9), f.Position())

			// read larger than a window
			got, err = f.Next(20)
			require.NoError(t, err)
			require.Equal(t, data[9:29], got)

			// zero-length read
			got, err = f.Next(0)
			require.NoError(t, err)
			require.Empty(t, got)
			require.Equal(t, int64(29), f.Position())

			// jump backwards and re-read
			require.NoError(t, f.Jump(2))
			got, err = f.Next(3)
			require.NoError(t, err)
			require.Equal(t, data[2:5], got)

			// jump to the end
			require.NoError(t, f.Jump(100))
			require.True(t, f.Done())

			_, err = f.Next(1)
			require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
			require.ErrorIs(t, err, errs.ErrBounds)
			require.Equal(t, int64(100), f.Position())
		})
	}
}

func TestFeeder_ShortReadDoesNotAdvance(t *testing.T) {
	data := testData(10)

	for name, f := range feederFactories(t, data) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.Jump(8))

			_, err := f.Next(3)
			require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
			require.Equal(t, int64(8), f.Position())

			got, err := f.Next(2)
			require.NoError(t, err)
			require.Equal(t, data[8:10], got)
			require.True(t, f.Done())
		})
	}
}

func TestFeeder_JumpOutOfRange(t *testing.T) {
	for name, f := range feederFactories(t, testData(10)) {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, f.Jump(-1), errs.ErrOutOfRange)
			require.ErrorIs(t, f.Jump(11), errs.ErrBounds)
			require.NoError(t, f.Jump(10))
		})
	}
}

func TestFeeder_ReturnedSliceIsCopy(t *testing.T) {
	data := testData(16)
	original := append([]byte(nil), data...)

	for name, f := range feederFactories(t, data) {
		t.Run(name, func(t *testing.T) {
			got, err := f.Next(8)
			require.NoError(t, err)
			for i := range got {
				got[i] = 0xAA
			}

			require.NoError(t, f.Jump(0))
			again, err := f.Next(8)
			require.NoError(t, err)
			require.Equal(t, original[:8], again)
		})
	}

	require.Equal(t, original, data)
}

func TestFileFeeder_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, testData(4), 0o600))

	f, err := NewFileFeeder(path)
	require.NoError(t, err)
	require.Equal(t, int64(4), f.Size())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.Next(1)
	require.ErrorIs(t, err, errs.ErrFeederClosed)
	require.ErrorIs(t, f.Jump(0), errs.ErrFeederClosed)
}

func TestNewFileFeeder_Missing(t *testing.T) {
	_, err := NewFileFeeder(filepath.Join(t.TempDir(), "missing.sav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewBlobFeeder_InvalidPageSize(t *testing.T) {
	src := NewReaderAtSource(bytes.NewReader(nil), 0)
	_, err := NewBlobFeeder(context.Background(), src, WithPageSize(0))
	require.Error(t, err)
}

func TestBlobFeeder_CancelledContext(t *testing.T) {
	data := testData(32)
	ctx, cancel := context.WithCancel(context.Background())

	f, err := NewBlobFeeder(ctx, NewReaderAtSource(bytes.NewReader(data), 32), WithPageSize(8))
	require.NoError(t, err)

	_, err = f.Next(4)
	require.NoError(t, err)

	cancel()

	// served from the current window
	_, err = f.Next(4)
	require.NoError(t, err)

	// needs a reload
	_, err = f.Next(4)
	require.ErrorIs(t, err, context.Canceled)
}

type countingSource struct {
	*ReaderAtSource
	reads int
}

func (c *countingSource) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	c.reads++
	return c.ReaderAtSource.ReadAt(ctx, p, off)
}

func TestBlobFeeder_WindowReuse(t *testing.T) {
	data := testData(64)
	src := &countingSource{ReaderAtSource: NewReaderAtSource(bytes.NewReader(data), 64)}

	f, err := NewBlobFeeder(context.Background(), src, WithPageSize(16))
	require.NoError(t, err)

	for range 4 {
		_, err := f.Next(4)
		require.NoError(t, err)
	}
	require.Equal(t, 1, src.reads)

	// jumping inside the window needs no reload
	require.NoError(t, f.Jump(2))
	_, err = f.Next(8)
	require.NoError(t, err)
	require.Equal(t, 1, src.reads)

	_, err = f.Next(8)
	require.NoError(t, err)
	require.Equal(t, 2, src.reads)
}
