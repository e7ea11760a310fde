package dataset

import (
	"fmt"
	"strings"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/internal/pool"
	"github.com/mhermher/savvy/sav"
)

const (
	segmentBytes  = 252 // payload of every very long string segment but the last
	maxShortWidth = 255
	slotBytes     = 8
)

// unit is one variable record with its continuation slots.
type unit struct {
	slots []int
	width int
}

// variable is one logical column: a unit, or for very long strings several.
type variable struct {
	head     int // slot index of the first unit
	unit     int // index of the first unit
	width    int
	segments []unit
}

// groupUnits attaches continuation slots to the variable record before them.
func groupUnits(headers []sav.Header) ([]unit, error) {
	units := make([]unit, 0, len(headers))
	for i, h := range headers {
		if h.IsContinuation() {
			if len(units) == 0 {
				return nil, fmt.Errorf("%w: continuation slot %d has no variable", errs.ErrInvalidSegments, i+1)
			}
			last := &units[len(units)-1]
			last.slots = append(last.slots, i)

			continue
		}
		units = append(units, unit{slots: []int{i}, width: int(max(h.Code, 0))})
	}

	return units, nil
}

// groupVariables merges the segments of very long strings. widths maps the
// short name of a first segment to the full width.
func groupVariables(headers []sav.Header, units []unit, widths map[string]int) ([]variable, error) {
	vars := make([]variable, 0, len(units))

	for u := 0; u < len(units); u++ {
		head := units[u].slots[0]
		v := variable{head: head, unit: u, width: units[u].width, segments: units[u : u+1]}

		if full, ok := widths[headers[head].Name]; ok && full > maxShortWidth && headers[head].IsString() {
			n := (full + segmentBytes - 1) / segmentBytes
			if u+n > len(units) {
				return nil, fmt.Errorf("%w: %s declares %d segments, %d variables remain",
					errs.ErrInvalidSegments, headers[head].Name, n, len(units)-u)
			}
			for _, seg := range units[u+1 : u+n] {
				if !headers[seg.slots[0]].IsString() {
					return nil, fmt.Errorf("%w: segment %s of %s is numeric",
						errs.ErrInvalidSegments, headers[seg.slots[0]].Name, headers[head].Name)
				}
			}
			v.width = full
			v.segments = units[u : u+n]
			u += n - 1
		}

		vars = append(vars, v)
	}

	return vars, nil
}

// foldText assembles the string value of v from one row. Slots are padded
// to 8 bytes, every segment but the last contributes its first 252 bytes,
// and the result is cut to the declared width and right-trimmed. ok is
// false when every slot is system-missing.
func foldText(v *variable, row sav.Row, buf *pool.ByteBuffer) (string, bool) {
	buf.Reset()
	present := false

	for i, seg := range v.segments {
		start := buf.Len()
		for _, slot := range seg.slots {
			var s string
			if slot < len(row) {
				var ok bool
				if s, ok = row[slot].Text(); ok {
					present = true
				}
			}
			_, _ = buf.WriteString(s)
			buf.Fill(' ', slotBytes-len(s))
		}

		limit := seg.width
		if i < len(v.segments)-1 {
			limit = segmentBytes
		}
		buf.Truncate(start + limit)
	}

	if !present {
		return "", false
	}

	buf.Truncate(v.width)

	return strings.TrimRight(buf.String(), " \x00"), true
}
