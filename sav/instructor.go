package sav

import (
	"fmt"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/section"
)

// instructor decodes the bytecode-compressed case stream. Opcodes arrive
// in 8-byte blocks; a literal opcode's 8-byte payload follows the block it
// was read from, in opcode order.
type instructor struct {
	sc      *scanner
	headers []Header
	bias    float64
	block   []byte
	next    int
}

func newInstructor(sc *scanner, headers []Header, bias float64) *instructor {
	return &instructor{sc: sc, headers: headers, bias: bias}
}

// rows decodes cases rows. A negative count means the header did not
// record one: decoding then stops when the input ends at a row boundary or
// when an end opcode opens a row.
func (in *instructor) rows(cases int32) ([]Row, error) {
	if cases == 0 || len(in.headers) == 0 {
		return []Row{}, nil
	}

	unknown := cases < 0
	rows := make([]Row, 0, presize(cases))

	for i := 0; unknown || i < int(cases); i++ {
		row, end, err := in.row(unknown)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
		if end {
			break
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// row decodes one case. end is true only when open is set and the stream
// ends before the first cell.
func (in *instructor) row(open bool) (Row, bool, error) {
	row := make(Row, len(in.headers))

	for i, h := range in.headers {
		op, end, err := in.opcode(open && i == 0)
		if err != nil {
			return nil, false, fmt.Errorf("%s (slot %d): %w", h.Name, i+1, err)
		}
		if end {
			return nil, true, nil
		}

		if row[i], err = in.cell(h, op); err != nil {
			return nil, false, fmt.Errorf("%s (slot %d): %w", h.Name, i+1, err)
		}
	}

	return row, false, nil
}

// opcode returns the next non-padding opcode, refilling the block as
// needed. When first is set, running out of input or meeting an end opcode
// reports end instead of failing.
func (in *instructor) opcode(first bool) (format.Opcode, bool, error) {
	for {
		if in.next >= len(in.block) {
			if first && in.sc.done() {
				return 0, true, nil
			}

			block, err := in.sc.next(section.SlotSize)
			if err != nil {
				return 0, false, err
			}
			in.block, in.next = block, 0
		}

		op := format.Opcode(in.block[in.next])
		in.next++

		switch op {
		case format.OpcodePadding:
			continue
		case format.OpcodeEnd:
			if first {
				return 0, true, nil
			}

			return 0, false, fmt.Errorf("%w at offset %d", errs.ErrUnexpectedTerminator, in.sc.position())
		default:
			return op, false, nil
		}
	}
}

func (in *instructor) cell(h Header, op format.Opcode) (Value, error) {
	switch op {
	case format.OpcodeLiteral:
		data, err := in.sc.next(section.SlotSize)
		if err != nil {
			return Value{}, err
		}
		if h.IsString() {
			return String(string(data)), nil
		}

		return Number(endian.Float64(in.sc.engine, data)), nil

	case format.OpcodeBlank:
		if h.IsString() {
			return String(""), nil
		}

		return Value{}, fmt.Errorf("%w: opcode %d on numeric column", errs.ErrOpcodeTypeMismatch, op)

	case format.OpcodeSysmis:
		return Null(), nil

	default:
		if h.IsString() {
			return Value{}, fmt.Errorf("%w: opcode %d on string column", errs.ErrUnsupportedOpcode, op)
		}

		return Number(float64(op) - in.bias), nil
	}
}
