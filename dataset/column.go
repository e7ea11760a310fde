package dataset

import (
	"maps"
	"strings"

	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/sav"
	"github.com/mhermher/savvy/section"
)

// Kind is the type of a column.
type Kind uint8

const (
	KindNumeric Kind = iota // KindNumeric holds numbers.
	KindString              // KindString holds text.
	KindFactor              // KindFactor holds numeric codes with value labels.
	KindNull                // KindNull has no non-null value.
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "Numeric"
	case KindString:
		return "String"
	case KindFactor:
		return "Factor"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// Column is one logical variable. Its values are shared with the dataset
// it came from and never modified.
type Column struct {
	name      string
	short     string
	label     string
	kind      Kind
	numeric   bool
	width     int
	measure   format.Measure
	alignment format.Alignment
	display   int32
	print     section.FormatSpec
	missing   sav.Missing
	levels    map[float64]string
	text      map[string]string
	values    []sav.Value
	suppress  bool
}

// Name returns the column name, the long name when one is declared.
func (c *Column) Name() string {
	return c.name
}

// ShortName returns the 8-byte variable name stored in the variable record.
func (c *Column) ShortName() string {
	return c.short
}

// Label returns the variable label.
func (c *Column) Label() string {
	return c.label
}

// Kind returns the column type.
func (c *Column) Kind() Kind {
	return c.kind
}

// IsNumeric reports whether the variable stores numbers. It is true for
// factor columns and for null columns backed by a numeric variable.
func (c *Column) IsNumeric() bool {
	return c.numeric
}

// Measure returns the measurement level from the display table.
func (c *Column) Measure() format.Measure {
	return c.measure
}

// Width returns the declared string width in bytes, 0 for numeric columns.
func (c *Column) Width() int {
	return c.width
}

// DisplayWidth returns the column width from the display table.
func (c *Column) DisplayWidth() int32 {
	return c.display
}

// Alignment returns the alignment from the display table.
func (c *Column) Alignment() format.Alignment {
	return c.alignment
}

// Decimals returns the number of decimals of the print format.
func (c *Column) Decimals() int {
	return int(c.print.Decimals)
}

// Missing returns the user-missing definition of the variable.
func (c *Column) Missing() sav.Missing {
	return c.missing
}

// Levels returns a copy of the numeric value labels.
func (c *Column) Levels() map[float64]string {
	return maps.Clone(c.levels)
}

// TextLevels returns a copy of the value labels of a string variable.
func (c *Column) TextLevels() map[string]string {
	return maps.Clone(c.text)
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return len(c.values)
}

// IsMissing reports whether v is system-missing or matches one of the
// variable's user-missing codes or its missing range. Range bounds are
// exclusive.
func (c *Column) IsMissing(v sav.Value) bool {
	if v.IsNull() {
		return true
	}

	if f, ok := v.Float(); ok {
		for _, code := range c.missing.Codes {
			if m, ok := code.Float(); ok && m == f {
				return true
			}
		}
		if r := c.missing.Range; r != nil && r.Low < f && f < r.High {
			return true
		}

		return false
	}

	if s, ok := v.Text(); ok {
		s = strings.TrimRight(s, " ")
		for _, code := range c.missing.Codes {
			if m, ok := code.Text(); ok && strings.TrimRight(m, " ") == s {
				return true
			}
		}
	}

	return false
}

// Raw returns the value of row i as stored, without missing suppression.
func (c *Column) Raw(i int) sav.Value {
	return c.values[i]
}

// Value returns the value of row i; user-missing values read as null unless
// suppression was disabled.
func (c *Column) Value(i int) sav.Value {
	v := c.values[i]
	if c.suppress && c.IsMissing(v) {
		return sav.Null()
	}

	return v
}

// Values returns every value with missing suppression applied.
func (c *Column) Values() []sav.Value {
	out := make([]sav.Value, len(c.values))
	for i := range c.values {
		out[i] = c.Value(i)
	}

	return out
}

// Any returns row i as nil, a float64 or a string. Labelled values are
// replaced by their label.
func (c *Column) Any(i int) any {
	v := c.Value(i)

	switch {
	case v.IsNull():
		return nil
	case v.Kind == sav.KindNumber && c.levels != nil:
		if label, ok := c.levels[v.Num]; ok {
			return label
		}
	case v.Kind == sav.KindString && c.text != nil:
		if label, ok := c.text[v.Str]; ok {
			return label
		}
	}

	return v.Any()
}

// subset returns a view of the column restricted to the given rows.
func (c *Column) subset(rows []int) *Column {
	view := *c
	view.values = make([]sav.Value, len(rows))
	for i, r := range rows {
		view.values[i] = c.values[r]
	}

	return &view
}
