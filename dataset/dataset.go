package dataset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/internal/collision"
	"github.com/mhermher/savvy/internal/hash"
	"github.com/mhermher/savvy/internal/options"
	"github.com/mhermher/savvy/internal/pool"
	"github.com/mhermher/savvy/sav"
)

// Dataset is the column view of a decoded file.
type Dataset struct {
	meta      sav.Meta
	columns   []*Column
	index     map[uint64]int // FoldID(name) → column, nil after a hash collision
	byName    map[string]int // upper-cased name → column
	rows      int
	documents []string
	weight    string
	charset   string
}

// New builds a Dataset from a decoded file.
func New(parsed sav.Parsed, opts ...Option) (*Dataset, error) {
	cfg := defaultSettings()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	dec, err := fileDecoder(cfg.charset, &parsed.Internal)
	if err != nil {
		return nil, err
	}

	units, err := groupUnits(parsed.Headers)
	if err != nil {
		return nil, err
	}

	vars, err := groupVariables(parsed.Headers, units, parsed.Internal.Widths)
	if err != nil {
		return nil, err
	}

	b := builder{parsed: &parsed, cfg: cfg, dec: dec, units: units, vars: vars}
	columns := b.columns()

	ds := &Dataset{
		meta:    parsed.Meta,
		columns: columns,
		rows:    len(parsed.Rows),
		charset: dec.name,
		weight:  b.weight(columns),
	}
	for _, doc := range parsed.Internal.Documents {
		for _, line := range doc {
			ds.documents = append(ds.documents, dec.decode(line))
		}
	}

	if err := ds.buildIndex(); err != nil {
		return nil, err
	}

	return ds, nil
}

type builder struct {
	parsed *sav.Parsed
	cfg    *settings
	dec    decoder
	units  []unit
	vars   []variable
}

func (b *builder) columns() []*Column {
	headers := b.parsed.Headers
	in := &b.parsed.Internal

	owner := make([]int, len(headers))
	for i, v := range b.vars {
		for _, seg := range v.segments {
			for _, slot := range seg.slots {
				owner[slot] = i
			}
		}
	}

	columns := make([]*Column, len(b.vars))
	for i := range b.vars {
		columns[i] = b.column(&b.vars[i])
	}

	for _, factor := range in.Factors {
		if factor.Indices == nil {
			continue
		}
		it := factor.Indices.Iterator()
		for it.HasNext() {
			slot := int(it.Next()) - 1
			if slot < 0 || slot >= len(owner) {
				continue
			}
			b.attachLevels(columns[owner[slot]], factor)
		}
	}

	b.applyDisplay(columns)

	for _, c := range columns {
		c.kind = kindOf(c)
	}

	return columns
}

func (b *builder) column(v *variable) *Column {
	headers := b.parsed.Headers
	h := headers[v.head]

	c := &Column{
		name:     b.dec.decode(h.Name),
		short:    h.Name,
		label:    b.dec.decode(h.Label),
		numeric:  h.IsNumeric(),
		print:    h.Print,
		missing:  sav.Missing{Codes: slices.Clone(h.Missing.Codes), Range: h.Missing.Range},
		suppress: b.cfg.suppress,
		values:   make([]sav.Value, len(b.parsed.Rows)),
	}
	if !c.numeric {
		c.width = v.width
	}
	if long, ok := b.parsed.Internal.Labels[h.Name]; ok && b.cfg.longNames && long != "" {
		c.name = b.dec.decode(long)
	}

	if c.numeric {
		for r, row := range b.parsed.Rows {
			if v.head < len(row) {
				c.values[r] = row[v.head]
			}
		}

		return c
	}

	buf := pool.GetTextBuffer()
	defer pool.PutTextBuffer(buf)

	for r, row := range b.parsed.Rows {
		if s, ok := foldText(v, row, buf); ok {
			c.values[r] = sav.String(b.dec.decode(s))
		}
	}

	for i, code := range c.missing.Codes {
		if s, ok := code.Text(); ok {
			c.missing.Codes[i] = sav.String(b.dec.decode(s))
		}
	}

	return c
}

func (b *builder) attachLevels(c *Column, factor sav.Factor) {
	if c.numeric {
		if c.levels == nil {
			c.levels = make(map[float64]string, len(factor.Levels))
		}
		for _, level := range factor.Levels {
			c.levels[level.Key] = b.dec.decode(level.Label)
		}

		return
	}

	if c.text == nil {
		c.text = make(map[string]string, len(factor.Levels))
	}
	for _, level := range factor.Levels {
		key := b.dec.decode(strings.TrimRight(string(level.Raw[:]), " \x00"))
		c.text[key] = b.dec.decode(level.Label)
	}
}

// applyDisplay assigns display entries. Writers emit one entry per variable
// record, counting every very long string segment; some emit one per
// logical column. Tables matching neither count are ignored.
func (b *builder) applyDisplay(columns []*Column) {
	display := b.parsed.Internal.Display

	var pick func(i int) sav.Display
	switch len(display) {
	case 0:
		return
	case len(b.units):
		pick = func(i int) sav.Display { return display[b.vars[i].unit] }
	case len(b.vars):
		pick = func(i int) sav.Display { return display[i] }
	default:
		return
	}

	for i, c := range columns {
		d := pick(i)
		c.measure = d.Measure
		c.display = d.Width
		c.alignment = d.Alignment
	}
}

func (b *builder) weight(columns []*Column) string {
	slot := int(b.parsed.Meta.WeightIndex) - 1
	if slot < 0 {
		return ""
	}
	for i, v := range b.vars {
		if v.head == slot {
			return columns[i].name
		}
	}

	return ""
}

func kindOf(c *Column) Kind {
	allNull := true
	for _, v := range c.values {
		if !v.IsNull() {
			allNull = false
			break
		}
	}

	switch {
	case allNull:
		return KindNull
	case !c.numeric:
		return KindString
	case len(c.levels) > 0:
		return KindFactor
	default:
		return KindNumeric
	}
}

func (ds *Dataset) buildIndex() error {
	tracker := collision.NewTracker()
	ids := make([]uint64, len(ds.columns))
	for i, c := range ds.columns {
		ids[i] = hash.FoldID(c.name)
		if err := tracker.Track(strings.ToUpper(c.name), ids[i]); err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
	}

	ds.byName = make(map[string]int, len(ds.columns))
	for i, c := range ds.columns {
		key := strings.ToUpper(c.name)
		if _, exists := ds.byName[key]; exists {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateColumn, c.name)
		}
		ds.byName[key] = i
	}

	if !tracker.HasCollision() {
		ds.index = make(map[uint64]int, len(ds.columns))
		for i, id := range ids {
			ds.index[id] = i
		}
	}

	return nil
}

func (ds *Dataset) lookup(name string) (int, bool) {
	if ds.index != nil {
		i, ok := ds.index[hash.FoldID(name)]
		return i, ok && strings.EqualFold(ds.columns[i].name, name)
	}

	i, ok := ds.byName[strings.ToUpper(name)]

	return i, ok
}

// Meta returns the file header.
func (ds *Dataset) Meta() sav.Meta {
	return ds.meta
}

// N returns the number of rows.
func (ds *Dataset) N() int {
	return ds.rows
}

// Fields returns the column names in file order.
func (ds *Dataset) Fields() []string {
	names := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		names[i] = c.name
	}

	return names
}

// Columns returns the columns in file order.
func (ds *Dataset) Columns() []*Column {
	return append([]*Column(nil), ds.columns...)
}

// Documents returns the document lines of every document record.
func (ds *Dataset) Documents() []string {
	return append([]string(nil), ds.documents...)
}

// Weight returns the name of the weight column, or "" if unweighted.
func (ds *Dataset) Weight() string {
	return ds.weight
}

// Charset returns the name of the character set text was decoded from,
// or "" when text was passed through.
func (ds *Dataset) Charset() string {
	return ds.charset
}

// Measures returns the measurement level of every column by name.
func (ds *Dataset) Measures() map[string]format.Measure {
	out := make(map[string]format.Measure, len(ds.columns))
	for _, c := range ds.columns {
		out[c.name] = c.measure
	}

	return out
}

// Col returns the column with the given name. Names match case-insensitively.
func (ds *Dataset) Col(name string) (*Column, error) {
	i, ok := ds.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrColumnNotFound, name)
	}

	return ds.columns[i], nil
}

// Cols returns a dataset restricted to the named columns, in the given order.
func (ds *Dataset) Cols(names ...string) (*Dataset, error) {
	columns := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := ds.Col(name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}

	return ds.derive(columns, ds.rows)
}

// Rows returns a dataset restricted to the given row indices, in the given
// order.
func (ds *Dataset) Rows(indices ...int) (*Dataset, error) {
	for _, i := range indices {
		if i < 0 || i >= ds.rows {
			return nil, fmt.Errorf("%w: %d of %d", errs.ErrRowOutOfRange, i, ds.rows)
		}
	}

	columns := make([]*Column, len(ds.columns))
	for i, c := range ds.columns {
		columns[i] = c.subset(indices)
	}

	return ds.derive(columns, len(indices))
}

// Row returns row i keyed by column name, with value labels applied and
// missing values as nil.
func (ds *Dataset) Row(i int) (map[string]any, error) {
	if i < 0 || i >= ds.rows {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrRowOutOfRange, i, ds.rows)
	}

	row := make(map[string]any, len(ds.columns))
	for _, c := range ds.columns {
		row[c.name] = c.Any(i)
	}

	return row, nil
}

// Records returns every row as Row would.
func (ds *Dataset) Records() []map[string]any {
	out := make([]map[string]any, ds.rows)
	for i := range out {
		out[i], _ = ds.Row(i)
	}

	return out
}

func (ds *Dataset) derive(columns []*Column, rows int) (*Dataset, error) {
	view := &Dataset{
		meta:      ds.meta,
		columns:   columns,
		rows:      rows,
		documents: ds.documents,
		charset:   ds.charset,
	}
	for _, c := range columns {
		if c.name == ds.weight {
			view.weight = ds.weight
		}
	}

	if err := view.buildIndex(); err != nil {
		return nil, err
	}

	return view, nil
}
