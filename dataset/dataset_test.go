package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/internal/savtest"
	"github.com/mhermher/savvy/sav"
)

var le = endian.GetLittleEndianEngine()

func parse(t *testing.T, file savtest.File) sav.Parsed {
	t.Helper()

	r, err := sav.NewReader(feeder.NewBufferFeeder(file.Bytes()))
	require.NoError(t, err)
	parsed, err := r.All()
	require.NoError(t, err)

	return parsed
}

func build(t *testing.T, file savtest.File, opts ...Option) *Dataset {
	t.Helper()

	ds, err := New(parse(t, file), opts...)
	require.NoError(t, err)

	return ds
}

// surveyFile has a factor, a 20-byte string, a 600-byte string and a
// numeric with a missing range.
func surveyFile() savtest.File {
	vars := []savtest.Variable{{Name: "SEX", Label: "Respondent sex", Print: 0x050800, Write: 0x050800}}
	vars = append(vars, savtest.StringSlots("CITY", 20)...)
	vars = append(vars, savtest.VeryLongSlots("COMMENT", 600)...)
	vars = append(vars, savtest.Variable{Name: "INCOME", MissingCount: -3, Missing: []float64{-9, 0, 999}, Print: 0x050802, Write: 0x050802})

	comment := strings.Repeat("abcdefghij", 55) + "tail"

	// SEX is slot 1, CITY slots 2-4, COMMENT segments take 32+32+12 slots
	// (76), so INCOME is slot 81.
	file := savtest.File{
		Header:    savtest.DefaultHeader(),
		Variables: vars,
		Records: [][]byte{
			savtest.ValueLabels(le, []savtest.Label{{Value: 1, Label: "male"}, {Value: 2, Label: "female"}}, 1),
			savtest.ValueLabels(le, []savtest.Label{{Value: 999, Label: "refused"}}, 81),
			savtest.Document(le, "collected 2026"),
			savtest.DisplayTable(le,
				savtest.Display{Measure: 1, Width: 6, Alignment: 1},
				savtest.Display{Measure: 1, Width: 20, Alignment: 0},
				savtest.Display{Measure: 1, Width: 60, Alignment: 0},
				savtest.Display{Measure: 1, Width: 60, Alignment: 0},
				savtest.Display{Measure: 1, Width: 60, Alignment: 0},
				savtest.Display{Measure: 3, Width: 10, Alignment: 1},
			),
			savtest.LongNames(le, "SEX=Sex", "CITY=HomeCity", "INCOME=HouseholdIncome"),
			savtest.LongWidths(le, "COMMENT=600"),
			savtest.IntegerInfo(le, 65001),
		},
	}
	file.Header.Cases = 3
	file.Header.WeightIndex = 81
	file.Data = savtest.NewCompressor(le, 100).
		Number(1).Text("Utrecht", 20).VeryLong(comment, 600).Number(52000).
		Number(2).Text("", 20).VeryLong("short", 600).Number(999).
		Sysmis().Text("Reykjavik and surroundings", 20).VeryLong("", 600).Number(-5).
		Bytes(true)

	return file
}

func TestNew_Survey(t *testing.T) {
	ds := build(t, surveyFile())

	require.Equal(t, 3, ds.N())
	require.Equal(t, []string{"Sex", "HomeCity", "COMMENT", "HouseholdIncome"}, ds.Fields())
	require.Equal(t, []string{"collected 2026"}, ds.Documents())
	require.Equal(t, "HouseholdIncome", ds.Weight())
	require.Equal(t, "UTF-8", ds.Charset())

	sex, err := ds.Col("sex")
	require.NoError(t, err)
	require.Equal(t, KindFactor, sex.Kind())
	require.Equal(t, "SEX", sex.ShortName())
	require.Equal(t, "Respondent sex", sex.Label())
	require.Equal(t, format.MeasureNominal, sex.Measure())
	require.Equal(t, format.AlignRight, sex.Alignment())
	require.Equal(t, int32(6), sex.DisplayWidth())
	require.Equal(t, map[float64]string{1: "male", 2: "female"}, sex.Levels())
	require.Equal(t, "male", sex.Any(0))
	require.Equal(t, "female", sex.Any(1))
	require.Nil(t, sex.Any(2))

	city, err := ds.Col("HomeCity")
	require.NoError(t, err)
	require.Equal(t, KindString, city.Kind())
	require.Equal(t, 20, city.Width())
	require.Equal(t, []sav.Value{sav.String("Utrecht"), sav.String(""), sav.String("Reykjavik and surrou")}, city.Values())

	comment, err := ds.Col("COMMENT")
	require.NoError(t, err)
	require.Equal(t, 600, comment.Width())
	require.Equal(t, format.Measure(1), comment.Measure())
	text, ok := comment.Value(0).Text()
	require.True(t, ok)
	require.Equal(t, strings.Repeat("abcdefghij", 55)+"tail", text)
	require.Equal(t, sav.String("short"), comment.Value(1))
	require.Equal(t, sav.String(""), comment.Value(2))

	income, err := ds.Col("householdincome")
	require.NoError(t, err)
	require.Equal(t, KindFactor, income.Kind())
	require.Equal(t, format.MeasureScale, income.Measure())
	require.Equal(t, 2, income.Decimals())
	require.Equal(t, sav.Number(52000), income.Value(0))
	require.Equal(t, sav.Null(), income.Value(1), "discrete code 999 is missing")
	require.Equal(t, sav.Number(999), income.Raw(1))
	require.Equal(t, sav.Null(), income.Value(2), "-5 lies inside (-9, 0)")

	row, err := ds.Row(0)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"Sex":             "male",
		"HomeCity":        "Utrecht",
		"COMMENT":         text,
		"HouseholdIncome": 52000.0,
	}, row)
	require.Len(t, ds.Records(), 3)
}

func TestNew_Options(t *testing.T) {
	ds := build(t, surveyFile(), WithLongNames(false), WithMissingSuppressed(false))

	require.Equal(t, []string{"SEX", "CITY", "COMMENT", "INCOME"}, ds.Fields())
	require.Equal(t, "INCOME", ds.Weight())

	income, err := ds.Col("INCOME")
	require.NoError(t, err)
	require.Equal(t, sav.Number(999), income.Value(1))
	require.True(t, income.IsMissing(income.Value(1)))
	require.Equal(t, "refused", income.Any(1))
}

func TestNew_InvalidCharset(t *testing.T) {
	_, err := New(parse(t, surveyFile()), WithCharset("no-such-charset"))
	require.ErrorIs(t, err, errs.ErrInvalidCharset)
}

func TestNew_Charset(t *testing.T) {
	latin := "caf\xe9"
	file := savtest.File{
		Header:    savtest.DefaultHeader(),
		Variables: append([]savtest.Variable{{Name: "PLACE", Label: latin}}, savtest.StringSlots("NAME", 8)...),
		Records: [][]byte{
			savtest.ValueLabels(le, []savtest.Label{{Value: 1, Label: "Fran\xe7ais"}}, 1),
			savtest.IntegerInfo(le, 1252),
		},
	}
	file.Header.Cases = 1
	file.Data = savtest.NewCompressor(le, 100).Number(1).Text("Mu\xf1oz", 8).Bytes(true)

	t.Run("code page", func(t *testing.T) {
		ds := build(t, file)
		require.Equal(t, "windows-1252", ds.Charset())

		place, err := ds.Col("PLACE")
		require.NoError(t, err)
		require.Equal(t, "café", place.Label())
		require.Equal(t, "Français", place.Any(0))

		name, err := ds.Col("NAME")
		require.NoError(t, err)
		require.Equal(t, sav.String("Muñoz"), name.Value(0))
	})

	t.Run("encoding record wins", func(t *testing.T) {
		withRecord := file
		withRecord.Records = append([][]byte{savtest.Encoding(le, "ISO-8859-1")}, file.Records...)
		ds := build(t, withRecord)
		require.Contains(t, ds.Charset(), "8859-1")

		place, err := ds.Col("PLACE")
		require.NoError(t, err)
		require.Equal(t, "café", place.Label())
	})

	t.Run("explicit", func(t *testing.T) {
		ds := build(t, file, WithCharset("UTF-8"))
		place, err := ds.Col("PLACE")
		require.NoError(t, err)
		require.Equal(t, latin, place.Label())
	})
}

func TestNew_StringValueLabelsAndMissing(t *testing.T) {
	vars := savtest.StringSlots("ANSWER", 8)
	vars[0].MissingCount = 1
	vars[0].MissingText = []string{"DK"}

	file := savtest.File{
		Header:    savtest.DefaultHeader(),
		Variables: vars,
		Records: [][]byte{
			savtest.ValueLabels(le, []savtest.Label{{Raw: "Y", Label: "yes"}}, 1),
		},
	}
	file.Header.Cases = 3
	file.Data = savtest.NewCompressor(le, 100).Text("Y", 8).Text("DK", 8).Text("N", 8).Bytes(true)

	ds := build(t, file)
	answer, err := ds.Col("ANSWER")
	require.NoError(t, err)
	require.Equal(t, KindString, answer.Kind())
	require.Equal(t, map[string]string{"Y": "yes"}, answer.TextLevels())
	require.Equal(t, "yes", answer.Any(0))
	require.Nil(t, answer.Any(1))
	require.Equal(t, "N", answer.Any(2))
}

func TestNew_NullColumn(t *testing.T) {
	file := savtest.File{
		Header:    savtest.DefaultHeader(),
		Variables: []savtest.Variable{savtest.Numeric("EMPTY"), savtest.Numeric("FULL")},
	}
	file.Header.Cases = 2
	file.Data = savtest.NewCompressor(le, 100).Sysmis().Number(1).Sysmis().Number(2).Bytes(true)

	ds := build(t, file)
	empty, err := ds.Col("EMPTY")
	require.NoError(t, err)
	require.Equal(t, KindNull, empty.Kind())
	require.True(t, empty.IsNumeric())

	full, err := ds.Col("FULL")
	require.NoError(t, err)
	require.Equal(t, KindNumeric, full.Kind())
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing segments", func(t *testing.T) {
		file := savtest.File{
			Header:    savtest.DefaultHeader(),
			Variables: savtest.StringSlots("NOTE", 255),
			Records:   [][]byte{savtest.LongWidths(le, "NOTE=600")},
		}
		_, err := New(parse(t, file))
		require.ErrorIs(t, err, errs.ErrInvalidSegments)
	})

	t.Run("duplicate long names", func(t *testing.T) {
		file := savtest.File{
			Header:    savtest.DefaultHeader(),
			Variables: []savtest.Variable{savtest.Numeric("A"), savtest.Numeric("B")},
			Records:   [][]byte{savtest.LongNames(le, "A=Same", "B=same")},
		}
		_, err := New(parse(t, file))
		require.ErrorIs(t, err, errs.ErrDuplicateColumn)
	})

	t.Run("orphan continuation", func(t *testing.T) {
		parsed := sav.Parsed{Headers: []sav.Header{{Code: -1}}}
		_, err := New(parsed)
		require.ErrorIs(t, err, errs.ErrInvalidSegments)
	})
}

func TestDataset_Subsetting(t *testing.T) {
	ds := build(t, surveyFile())

	cols, err := ds.Cols("HouseholdIncome", "sex")
	require.NoError(t, err)
	require.Equal(t, []string{"HouseholdIncome", "Sex"}, cols.Fields())
	require.Equal(t, 3, cols.N())
	require.Equal(t, "HouseholdIncome", cols.Weight())

	_, err = ds.Cols("Sex", "nope")
	require.ErrorIs(t, err, errs.ErrColumnNotFound)

	_, err = ds.Cols("Sex", "SEX")
	require.ErrorIs(t, err, errs.ErrDuplicateColumn)

	rows, err := ds.Rows(2, 0)
	require.NoError(t, err)
	require.Equal(t, 2, rows.N())
	city, err := rows.Col("HomeCity")
	require.NoError(t, err)
	require.Equal(t, []sav.Value{sav.String("Reykjavik and surrou"), sav.String("Utrecht")}, city.Values())

	_, err = ds.Rows(3)
	require.ErrorIs(t, err, errs.ErrRowOutOfRange)
	_, err = ds.Row(-1)
	require.ErrorIs(t, err, errs.ErrRowOutOfRange)

	// The source is untouched.
	require.Equal(t, 3, ds.N())
	city, err = ds.Col("HomeCity")
	require.NoError(t, err)
	require.Equal(t, sav.String("Utrecht"), city.Value(0))
}

func TestColumn_Describe(t *testing.T) {
	file := savtest.File{
		Header: savtest.DefaultHeader(),
		Variables: []savtest.Variable{
			{Name: "SCORE", MissingCount: 1, Missing: []float64{99}},
			{Type: 8, Name: "TAG"},
		},
	}
	c := savtest.NewCompressor(le, 100)
	for i := 1; i <= 9; i++ {
		c.Number(float64(i)).Slot("t")
	}
	c.Number(99).Slot("")
	c.Sysmis().Sysmis()
	file.Header.Cases = 11
	file.Data = c.Bytes(true)

	ds := build(t, file)

	score, err := ds.Col("SCORE")
	require.NoError(t, err)
	s, err := score.Describe()
	require.NoError(t, err)
	require.Equal(t, 9, s.Count)
	require.Equal(t, 2, s.Missing)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 9.0, s.Max)
	require.InDelta(t, 5.0, s.Mean, 1e-9)
	require.InDelta(t, 5.0, s.Median, 0.5)
	require.Less(t, s.Q1, s.Median)
	require.Greater(t, s.Q3, s.Median)

	tag, err := ds.Col("TAG")
	require.NoError(t, err)
	s, err = tag.Describe()
	require.NoError(t, err)
	require.Equal(t, Summary{Count: 10, Missing: 1}, s)
}

func TestSummary_ZeroStatistics(t *testing.T) {
	file := savtest.File{
		Header:    savtest.DefaultHeader(),
		Variables: []savtest.Variable{savtest.Numeric("FLAT")},
	}
	file.Header.Cases = 3
	file.Data = savtest.NewCompressor(le, 100).Number(0).Number(0).Number(0).Bytes(true)

	ds := build(t, file)
	flat, err := ds.Col("FLAT")
	require.NoError(t, err)
	s, err := flat.Describe()
	require.NoError(t, err)
	require.Equal(t, Summary{Count: 3}, s)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"count":3,"missing":0,"min":0,"max":0,"mean":0,"q1":0,"median":0,"q3":0}`,
		string(data))

	data, err = yaml.Marshal(s)
	require.NoError(t, err)
	require.Contains(t, string(data), "min: 0\n")
	require.Contains(t, string(data), "max: 0\n")
	require.Contains(t, string(data), "mean: 0\n")
}

func TestProperty_MissingValues(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("range bounds are exclusive", prop.ForAll(
		func(low, span, v float64) bool {
			high := low + span
			c := &Column{numeric: true, missing: sav.Missing{Range: &sav.Range{Low: low, High: high}}}
			want := low < v && v < high

			return c.IsMissing(sav.Number(v)) == want &&
				!c.IsMissing(sav.Number(low)) &&
				!c.IsMissing(sav.Number(high))
		},
		gen.Float64Range(-1000, 1000),
		gen.Float64Range(0, 100),
		gen.Float64Range(-1200, 1200),
	))

	properties.Property("discrete codes match exactly", prop.ForAll(
		func(a, b, v float64) bool {
			c := &Column{numeric: true, missing: sav.Missing{Codes: []sav.Value{sav.Number(a), sav.Number(b)}}}

			return c.IsMissing(sav.Number(v)) == (v == a || v == b) &&
				c.IsMissing(sav.Number(a)) &&
				c.IsMissing(sav.Number(b))
		},
		gen.IntRange(-5, 5).Map(func(i int) float64 { return float64(i) }),
		gen.IntRange(-5, 5).Map(func(i int) float64 { return float64(i) }),
		gen.IntRange(-10, 10).Map(func(i int) float64 { return float64(i) }),
	))

	properties.Property("values outside pass through", prop.ForAll(
		func(v float64) bool {
			c := &Column{
				numeric:  true,
				suppress: true,
				missing:  sav.Missing{Codes: []sav.Value{sav.Number(-1)}, Range: &sav.Range{Low: 100, High: 200}},
				values:   []sav.Value{sav.Number(v)},
			}

			return c.Value(0) == sav.Number(v)
		},
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_LongStringRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("folded strings equal the original", prop.ForAll(
		func(width int, seed string) bool {
			seed += "x"
			text := strings.Repeat(seed, width/len(seed)+1)[:width]

			var vars []savtest.Variable
			var records [][]byte
			c := savtest.NewCompressor(le, 100)
			if width > 255 {
				vars = savtest.VeryLongSlots("LONG", width)
				records = append(records, savtest.LongWidths(le, "LONG="+strconv.Itoa(width)))
				c.VeryLong(text, width).VeryLong(text[:width/2], width)
			} else {
				vars = savtest.StringSlots("LONG", width)
				c.Text(text, width).Text(text[:width/2], width)
			}

			file := savtest.File{Header: savtest.DefaultHeader(), Variables: vars, Records: records}
			file.Header.Cases = 2
			file.Data = c.Bytes(true)

			r, err := sav.NewReader(feeder.NewBufferFeeder(file.Bytes()))
			if err != nil {
				return false
			}
			parsed, err := r.All()
			if err != nil {
				return false
			}
			ds, err := New(parsed)
			if err != nil || len(ds.Fields()) != 1 {
				return false
			}
			col, err := ds.Col("LONG")
			if err != nil || col.Width() != width {
				return false
			}

			return col.Value(0) == sav.String(text) && col.Value(1) == sav.String(text[:width/2])
		},
		gen.IntRange(9, 1500),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "Numeric", KindNumeric.String())
	require.Equal(t, "String", KindString.String())
	require.Equal(t, "Factor", KindFactor.String())
	require.Equal(t, "Null", KindNull.String())
	require.Equal(t, "Unknown", Kind(9).String())
}
