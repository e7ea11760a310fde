package sav

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/section"
)

// readInternal runs the record dispatch loop up to and including the
// terminator record.
func (r *Reader) readInternal(sc *scanner) (Internal, error) {
	internal := newInternal()

	for {
		start := sc.position()
		code, err := sc.readInt32()
		if err != nil {
			return Internal{}, fmt.Errorf("read record code at %d: %w", start, err)
		}

		record := format.RecordType(code)
		r.logger.Debug("record", "code", record, "offset", start)

		switch record {
		case format.RecordValueLabels:
			factor, err := readFactor(sc)
			if err != nil {
				return Internal{}, fmt.Errorf("value labels at %d: %w", start, err)
			}
			internal.Factors = append(internal.Factors, factor)

		case format.RecordDocument:
			lines, err := readDocument(sc)
			if err != nil {
				return Internal{}, fmt.Errorf("document at %d: %w", start, err)
			}
			internal.Documents = append(internal.Documents, lines)

		case format.RecordExtension:
			if err := r.readExtension(sc, &internal); err != nil {
				return Internal{}, fmt.Errorf("extension at %d: %w", start, err)
			}

		case format.RecordTerminator:
			if _, err := sc.next(4); err != nil {
				return Internal{}, fmt.Errorf("terminator padding at %d: %w", start, err)
			}
			internal.Finished = sc.position()

			return internal, nil

		default:
			return Internal{}, fmt.Errorf("%w: %d at offset %d, expected one of [3, 6, 7, 999]",
				errs.ErrUnknownRecord, code, start)
		}
	}
}

func readFactor(sc *scanner) (Factor, error) {
	count, err := sc.readInt32()
	if err != nil {
		return Factor{}, err
	}
	if count < 0 {
		return Factor{}, fmt.Errorf("%w: value label count %d", errs.ErrNegativeCount, count)
	}

	levels := make([]Level, 0, presize(count))
	for range count {
		level, err := readLevel(sc)
		if err != nil {
			return Factor{}, err
		}
		levels = append(levels, level)
	}

	data, err := sc.next(section.LabelIndexHeaderSize)
	if err != nil {
		return Factor{}, err
	}

	var index section.LabelIndexHeader
	if err := index.Parse(data, sc.engine); err != nil {
		return Factor{}, err
	}

	data, err = sc.next(4 * int(index.Count))
	if err != nil {
		return Factor{}, err
	}

	indices := roaring.New()
	for i := range int(index.Count) {
		pos := endian.Int32(sc.engine, data[4*i:])
		if pos < 1 {
			return Factor{}, fmt.Errorf("%w: %d", errs.ErrInvalidLabelIndex, pos)
		}
		indices.Add(uint32(pos))
	}

	return Factor{Levels: levels, Indices: indices}, nil
}

// readLevel reads one value label entry. The label is padded so that the
// length byte plus the label occupy a multiple of 8 bytes.
func readLevel(sc *scanner) (Level, error) {
	data, err := sc.next(section.SlotSize + 1)
	if err != nil {
		return Level{}, err
	}

	var level Level
	copy(level.Raw[:], data[:section.SlotSize])
	level.Key = endian.Float64(sc.engine, data)

	length := int(data[section.SlotSize])
	padded := length
	if rem := (length + 1) % section.SlotSize; rem != 0 {
		padded += section.SlotSize - rem
	}

	text, err := sc.next(padded)
	if err != nil {
		return Level{}, err
	}
	level.Label = section.TrimText(text[:length])

	return level, nil
}

func readDocument(sc *scanner) ([]string, error) {
	count, err := sc.readInt32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: document line count %d", errs.ErrNegativeCount, count)
	}

	data, err := sc.next(section.DocumentLineSize * int(count))
	if err != nil {
		return nil, err
	}

	lines := make([]string, count)
	for i := range lines {
		lines[i] = section.TrimText(data[i*section.DocumentLineSize : (i+1)*section.DocumentLineSize])
	}

	return lines, nil
}

func (r *Reader) readExtension(sc *scanner, internal *Internal) error {
	data, err := sc.next(section.ExtensionHeaderSize)
	if err != nil {
		return err
	}

	var ext section.ExtensionHeader
	if err := ext.Parse(data, sc.engine); err != nil {
		return err
	}

	r.logger.Debug("extension", "subcode", ext.Subcode, "size", ext.Size, "count", ext.Count)

	switch ext.Subcode {
	case format.SubcodeIntegerInfo:
		if err := ext.Expect(section.IntegerInfoSize); err != nil {
			return err
		}
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		info := &section.IntegerInfo{}
		if err := info.Parse(payload, sc.engine); err != nil {
			return err
		}
		internal.Integer = info

	case format.SubcodeFloatInfo:
		if err := ext.Expect(section.FloatInfoSize); err != nil {
			return err
		}
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		info := &section.FloatInfo{}
		if err := info.Parse(payload, sc.engine); err != nil {
			return err
		}
		internal.Float = info

	case format.SubcodeDisplay:
		display, err := readDisplay(sc, ext)
		if err != nil {
			return err
		}
		internal.Display = append(internal.Display, display...)

	case format.SubcodeLongNames:
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		pairs, err := splitPairs(payload)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			internal.Labels[p.key] = p.value
		}

	case format.SubcodeLongWidths:
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		pairs, err := splitPairs(payload)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			width, err := strconv.Atoi(p.value)
			if err != nil {
				return fmt.Errorf("%w: width of %s: %q", errs.ErrInvalidKeyValue, p.key, p.value)
			}
			internal.Widths[p.key] = width
		}

	case format.SubcodeLongValueLabels:
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		internal.LongValueLabels = append(internal.LongValueLabels, payload)

	default:
		payload, err := sc.next(ext.Len())
		if err != nil {
			return err
		}
		r.logger.Warn("extension passthrough", "subcode", ext.Subcode, "bytes", len(payload))
		internal.Unknown = append(internal.Unknown, Extension{
			Subcode: ext.Subcode,
			Size:    ext.Size,
			Count:   ext.Count,
			Data:    payload,
		})
	}

	return nil
}

func readDisplay(sc *scanner, ext section.ExtensionHeader) ([]Display, error) {
	if ext.Size != 4 {
		return nil, fmt.Errorf("%w: element size %d, expected 4", errs.ErrInvalidDisplayTable, ext.Size)
	}
	if ext.Count%section.DisplayFieldCount != 0 {
		return nil, fmt.Errorf("%w: %d fields is not a multiple of %d",
			errs.ErrInvalidDisplayTable, ext.Count, section.DisplayFieldCount)
	}

	payload, err := sc.next(ext.Len())
	if err != nil {
		return nil, err
	}

	display := make([]Display, ext.Count/section.DisplayFieldCount)
	for i := range display {
		field := payload[i*12:]
		display[i] = Display{
			Measure:   format.Measure(endian.Int32(sc.engine, field[0:])),
			Width:     endian.Int32(sc.engine, field[4:]),
			Alignment: format.Alignment(endian.Int32(sc.engine, field[8:])),
		}
	}

	return display, nil
}

type pair struct {
	key   string
	value string
}

// splitPairs decodes tab-separated key=value entries. Entries are trimmed
// of NUL padding and blanks; empty entries, such as the one after a
// trailing separator, are dropped.
func splitPairs(payload []byte) ([]pair, error) {
	entries := strings.Split(string(bytes.TrimRight(payload, "\x00")), "\t")

	pairs := make([]pair, 0, len(entries))
	for _, entry := range entries {
		entry = strings.Trim(entry, "\x00 ")
		if entry == "" {
			continue
		}

		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidKeyValue, entry)
		}
		pairs = append(pairs, pair{key: key, value: strings.Trim(value, "\x00 ")})
	}

	return pairs, nil
}
