package section

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
)

// testFileHeader builds a 176-byte header image with the given byte order.
func testFileHeader(t *testing.T, order binary.ByteOrder, compression int32) []byte {
	t.Helper()

	data := make([]byte, FileHeaderSize)
	copy(data[MagicOffset:], FileMagic)
	copy(data[ProductOffset:LayoutOffset], padText("@(#) SPSS DATA FILE test", 60))
	order.PutUint32(data[LayoutOffset:], 2)
	order.PutUint32(data[VariablesOffset:], 5)
	order.PutUint32(data[CompressionOffset:], uint32(compression)) //nolint:gosec
	order.PutUint32(data[WeightOffset:], 0)
	order.PutUint32(data[CasesOffset:], 12)
	order.PutUint64(data[BiasOffset:], math.Float64bits(100))
	copy(data[DateOffset:TimeOffset], "01 Jan 24")
	copy(data[TimeOffset:LabelOffset], "13:45:00")
	copy(data[LabelOffset:LabelEnd], padText("survey", 64))

	return data
}

func padText(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)

	return b
}

func TestFileHeader_Parse(t *testing.T) {
	t.Run("Valid little endian", func(t *testing.T) {
		h := &FileHeader{}
		err := h.Parse(testFileHeader(t, binary.LittleEndian, 1))

		require.NoError(t, err)
		require.Equal(t, FileMagic, h.Magic)
		require.Equal(t, "@(#) SPSS DATA FILE test", h.Product)
		require.Equal(t, int32(2), h.Layout)
		require.Equal(t, int32(5), h.Variables)
		require.Equal(t, format.CompressionBytecode, h.Compression)
		require.Equal(t, int32(12), h.Cases)
		require.Equal(t, 100.0, h.Bias)
		require.Equal(t, "01 Jan 24", h.CreatedDate)
		require.Equal(t, "13:45:00", h.CreatedTime)
		require.Equal(t, "survey", h.Label)
		require.Equal(t, endian.GetLittleEndianEngine(), h.Engine())
	})

	t.Run("Valid big endian", func(t *testing.T) {
		h := &FileHeader{}
		err := h.Parse(testFileHeader(t, binary.BigEndian, 1))

		require.NoError(t, err)
		require.Equal(t, int32(5), h.Variables)
		require.Equal(t, 100.0, h.Bias)
		require.Equal(t, endian.GetBigEndianEngine(), h.Engine())
	})

	t.Run("Invalid size", func(t *testing.T) {
		h := &FileHeader{}
		err := h.Parse([]byte{1, 2, 3})

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("Invalid magic", func(t *testing.T) {
		data := testFileHeader(t, binary.LittleEndian, 1)
		copy(data, "$FL3")

		err := (&FileHeader{}).Parse(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("Unsupported compression", func(t *testing.T) {
		for _, mode := range []int32{0, 2} {
			err := (&FileHeader{}).Parse(testFileHeader(t, binary.LittleEndian, mode))
			require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
			require.ErrorIs(t, err, errs.ErrFormat)
		}
	})

	t.Run("Unknown layout", func(t *testing.T) {
		data := testFileHeader(t, binary.LittleEndian, 1)
		binary.LittleEndian.PutUint32(data[LayoutOffset:], 77)

		err := (&FileHeader{}).Parse(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedLayout)
	})
}

func TestParseFileHeader(t *testing.T) {
	t.Run("Extra data ignored", func(t *testing.T) {
		data := append(testFileHeader(t, binary.LittleEndian, 1), 2, 0, 0, 0)

		h, err := ParseFileHeader(data)
		require.NoError(t, err)
		require.Equal(t, int32(12), h.Cases)
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := ParseFileHeader(make([]byte, FileHeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})
}

func TestTrimText(t *testing.T) {
	require.Equal(t, "abc", TrimText([]byte("abc     ")))
	require.Equal(t, "abc", TrimText([]byte("abc\x00\x00")))
	require.Equal(t, " a b", TrimText([]byte(" a b \x00 ")))
	require.Equal(t, "", TrimText([]byte("        ")))
}
