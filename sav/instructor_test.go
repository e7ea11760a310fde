package sav

import (
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/internal/savtest"
)

var (
	numericHeader = Header{Name: "N", Code: 0}
	stringHeader  = Header{Name: "S", Code: 8}
)

// decodeStream runs the case decoder directly over a raw stream.
func decodeStream(t *testing.T, headers []Header, cases int32, stream []byte) ([]Row, error) {
	t.Helper()

	sc := newScanner(feeder.NewBufferFeeder(stream))

	return newInstructor(sc, headers, 100).rows(cases)
}

func TestInstructor_OpcodeTable(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	pi := endian.AppendFloat64(e, nil, math.Pi)

	tests := []struct {
		name   string
		header Header
		stream []byte
		want   Value
		err    error
	}{
		{name: "opcode 1", header: numericHeader, stream: []byte{1, 0, 0, 0, 0, 0, 0, 0}, want: Number(-99)},
		{name: "opcode 100", header: numericHeader, stream: []byte{100, 0, 0, 0, 0, 0, 0, 0}, want: Number(0)},
		{name: "opcode 251", header: numericHeader, stream: []byte{251, 0, 0, 0, 0, 0, 0, 0}, want: Number(151)},
		{name: "literal", header: numericHeader, stream: append([]byte{253, 0, 0, 0, 0, 0, 0, 0}, pi...), want: Number(math.Pi)},
		{name: "sysmis numeric", header: numericHeader, stream: []byte{255, 0, 0, 0, 0, 0, 0, 0}, want: Null()},
		{name: "sysmis string", header: stringHeader, stream: []byte{255, 0, 0, 0, 0, 0, 0, 0}, want: Null()},
		{name: "blank string", header: stringHeader, stream: []byte{254, 0, 0, 0, 0, 0, 0, 0}, want: String("")},
		{name: "literal string", header: stringHeader, stream: append([]byte{253, 0, 0, 0, 0, 0, 0, 0}, "ab cd   "...), want: String("ab cd   ")},
		{name: "leading padding", header: numericHeader, stream: []byte{0, 0, 0, 101, 0, 0, 0, 0}, want: Number(1)},
		{name: "terminator", header: numericHeader, stream: []byte{252, 0, 0, 0, 0, 0, 0, 0}, err: errs.ErrUnexpectedTerminator},
		{name: "blank numeric", header: numericHeader, stream: []byte{254, 0, 0, 0, 0, 0, 0, 0}, err: errs.ErrOpcodeTypeMismatch},
		{name: "biased string", header: stringHeader, stream: []byte{120, 0, 0, 0, 0, 0, 0, 0}, err: errs.ErrUnsupportedOpcode},
		{name: "missing literal", header: numericHeader, stream: []byte{253, 0, 0, 0, 0, 0, 0, 0}, err: errs.ErrUnexpectedEnd},
		{name: "empty stream", header: numericHeader, stream: nil, err: errs.ErrUnexpectedEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := decodeStream(t, []Header{tt.header}, 1, tt.stream)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []Row{{tt.want}}, rows)
		})
	}
}

func TestInstructor_TerminatorMidRow(t *testing.T) {
	headers := []Header{numericHeader, numericHeader}

	_, err := decodeStream(t, headers, 2, []byte{101, 102, 103, 252, 0, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrUnexpectedTerminator)
	require.ErrorIs(t, err, errs.ErrDecode)

	// Known case counts never treat 252 as the end, not even at a row start.
	_, err = decodeStream(t, headers, 2, []byte{101, 102, 252, 0, 0, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrUnexpectedTerminator)
}

func TestInstructor_LiteralsFollowTheirBlock(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	stream := []byte{253, 101, 253, 254, 0, 0, 0, 0}
	stream = endian.AppendFloat64(e, stream, 1.5)
	stream = append(stream, "literal!"...)

	headers := []Header{numericHeader, numericHeader, stringHeader, stringHeader}
	rows, err := decodeStream(t, headers, 1, stream)
	require.NoError(t, err)
	require.Equal(t, []Row{{Number(1.5), Number(1), String("literal!"), String("")}}, rows)
}

func TestInstructor_UnknownCaseCount(t *testing.T) {
	headers := []Header{numericHeader, numericHeader}

	t.Run("end of input", func(t *testing.T) {
		rows, err := decodeStream(t, headers, -1, []byte{101, 102, 103, 104, 0, 0, 0, 0})
		require.NoError(t, err)
		require.Equal(t, []Row{{Number(1), Number(2)}, {Number(3), Number(4)}}, rows)
	})

	t.Run("end opcode", func(t *testing.T) {
		stream := []byte{101, 102, 252, 0, 0, 0, 0, 0, 0xff, 0xff}
		rows, err := decodeStream(t, headers, -1, stream)
		require.NoError(t, err)
		require.Equal(t, []Row{{Number(1), Number(2)}}, rows)
	})

	t.Run("empty", func(t *testing.T) {
		rows, err := decodeStream(t, headers, -1, nil)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("partial row", func(t *testing.T) {
		_, err := decodeStream(t, headers, -1, []byte{101, 102, 103, 0, 0, 0, 0, 0})
		require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
	})
}

func TestInstructor_ZeroCases(t *testing.T) {
	rows, err := decodeStream(t, []Header{numericHeader}, 0, []byte{0xff})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestReader_AllRows(t *testing.T) {
	e := endian.GetLittleEndianEngine()
	file := savtest.File{
		Header: savtest.DefaultHeader(),
		Variables: append([]savtest.Variable{savtest.Numeric("AGE")},
			savtest.StringSlots("CITY", 20)...),
	}
	file.Header.Cases = 3
	file.Data = savtest.NewCompressor(e, 100).
		Number(34).Text("Amsterdam", 20).
		Sysmis().Text("", 20).
		Number(1e9).Text("Rio de Janeiro state", 20).
		Bytes(true)

	r, f := newTestReader(t, file.Bytes())

	parsed, err := r.All()
	require.NoError(t, err)
	require.Equal(t, int64(0), f.Position())
	require.Len(t, parsed.Headers, 4)
	require.Equal(t, []Row{
		{Number(34), String("Amsterda"), String("m       "), String("")},
		{Null(), String(""), String(""), String("")},
		{Number(1e9), String("Rio de J"), String("aneiro s"), String("tate    ")},
	}, parsed.Rows)

	require.Equal(t, map[string]Value{"AGE": Number(34), "CITY": String("Amsterda")}, parsed.Rows[0].Map(parsed.Headers))
}

func TestProperty_BiasedOpcodes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("opcodes 1-251 decode to code minus bias", prop.ForAll(
		func(code uint8, bias float64) bool {
			sc := newScanner(feeder.NewBufferFeeder([]byte{code, 0, 0, 0, 0, 0, 0, 0}))
			rows, err := newInstructor(sc, []Header{numericHeader}, bias).rows(1)
			if err != nil {
				return false
			}
			v, ok := rows[0][0].Float()

			return ok && v == float64(code)-bias
		},
		gen.UInt8Range(1, 251),
		gen.Float64Range(-1000, 1000),
	))

	properties.Property("numeric cells survive compression", prop.ForAll(
		func(literals []float64, codes []int) bool {
			values := append([]float64{}, literals...)
			for _, c := range codes {
				values = append(values, float64(c))
			}

			file := savtest.File{
				Header:    savtest.DefaultHeader(),
				Variables: []savtest.Variable{savtest.Numeric("V")},
			}
			file.Header.Cases = int32(len(values))
			c := savtest.NewCompressor(nil, 100)
			for _, v := range values {
				c.Number(v)
			}
			file.Data = c.Bytes(false)

			r, err := NewReader(feeder.NewBufferFeeder(file.Bytes()))
			if err != nil {
				return false
			}
			parsed, err := r.All()
			if err != nil || len(parsed.Rows) != len(values) {
				return false
			}
			for i, v := range values {
				if got, ok := parsed.Rows[i][0].Float(); !ok || got != v {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.Float64Range(-1e12, 1e12)),
		gen.SliceOf(gen.IntRange(-99, 151)),
	))

	properties.TestingRun(t)
}

func TestProperty_LongStringSlots(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("continuation slots concatenate to the original", prop.ForAll(
		func(width int, text string) bool {
			if len(text) > width {
				text = text[:width]
			}

			slots := savtest.StringSlots("LONG", width)
			file := savtest.File{Header: savtest.DefaultHeader(), Variables: slots}
			file.Header.Cases = 2
			file.Data = savtest.NewCompressor(nil, 100).Text(text, width).Text(text, width).Bytes(true)

			r, err := NewReader(feeder.NewBufferFeeder(file.Bytes()))
			if err != nil {
				return false
			}
			parsed, err := r.All()
			if err != nil || len(parsed.Headers) != len(slots) {
				return false
			}

			for _, row := range parsed.Rows {
				var sb strings.Builder
				for _, v := range row {
					s, ok := v.Text()
					if !ok {
						return false
					}
					sb.WriteString(s)
				}
				if strings.TrimRight(sb.String(), " ") != strings.TrimRight(text, " ") {
					return false
				}
			}

			return true
		},
		gen.IntRange(9, 255),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
