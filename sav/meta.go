package sav

import (
	"fmt"

	"github.com/mhermher/savvy/endian"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/format"
	"github.com/mhermher/savvy/section"
)

// readMeta reads the file header and switches the scanner to the byte
// order it declares.
func (r *Reader) readMeta(sc *scanner) (Meta, error) {
	data, err := sc.next(section.FileHeaderSize)
	if err != nil {
		return Meta{}, fmt.Errorf("read file header: %w", err)
	}

	header, err := section.ParseFileHeader(data)
	if err != nil {
		return Meta{}, err
	}
	sc.engine = header.Engine()

	r.logger.Debug("file header",
		"product", header.Product,
		"layout", header.Layout,
		"variables", header.Variables,
		"cases", header.Cases,
		"bias", header.Bias,
		"big_endian", sc.engine == endian.GetBigEndianEngine(),
	)

	return newMeta(header), nil
}

// readHeaders reads variable records until a record with a different code
// appears, then rewinds to that record.
func (r *Reader) readHeaders(sc *scanner, meta Meta) ([]Header, error) {
	headers := make([]Header, 0, presize(meta.Variables))

	for {
		start := sc.position()
		code, err := sc.readInt32()
		if err != nil {
			return nil, fmt.Errorf("read record code at %d: %w", start, err)
		}

		if format.RecordType(code) != format.RecordVariable {
			if err := sc.jump(start); err != nil {
				return nil, err
			}

			break
		}

		header, err := r.readVariable(sc, start)
		if err != nil {
			return nil, fmt.Errorf("variable record %d at %d: %w", len(headers)+1, start, err)
		}
		headers = append(headers, header)
	}

	if r.strictCount && meta.Variables > 0 && int(meta.Variables) != len(headers) {
		return nil, fmt.Errorf("%w: header declares %d slots, found %d variable records",
			errs.ErrVariableCountMismatch, meta.Variables, len(headers))
	}

	r.logger.Debug("variable records", "count", len(headers), "end", sc.position())

	return headers, nil
}

func (r *Reader) readVariable(sc *scanner, start int64) (Header, error) {
	data, err := sc.next(section.VariableRecordSize)
	if err != nil {
		return Header{}, err
	}

	var rec section.VariableRecord
	if err := rec.Parse(data, sc.engine); err != nil {
		return Header{}, err
	}

	header := Header{
		Start: start,
		Code:  rec.Type,
		Name:  rec.Name,
		Print: rec.Print,
		Write: rec.Write,
	}

	if rec.HasLabel != 0 {
		if header.Label, err = readVariableLabel(sc); err != nil {
			return Header{}, err
		}
	}

	if rec.MissingCount != 0 {
		if header.Missing, err = readMissing(sc, &rec); err != nil {
			return Header{}, err
		}
	}

	return header, nil
}

func readVariableLabel(sc *scanner) (string, error) {
	length, err := sc.readInt32()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("%w: variable label length %d", errs.ErrNegativeCount, length)
	}

	data, err := sc.next(section.LabelPadding(int(length)))
	if err != nil {
		return "", err
	}

	return section.TrimText(data[:length]), nil
}

// readMissing reads the missing value block. A -3 indicator stores a range
// followed by one discrete value.
func readMissing(sc *scanner, rec *section.VariableRecord) (Missing, error) {
	data, err := sc.next(section.SlotSize * rec.MissingSlots())
	if err != nil {
		return Missing{}, err
	}

	slot := func(i int) []byte {
		return data[i*section.SlotSize : (i+1)*section.SlotSize]
	}

	var missing Missing
	switch {
	case !rec.IsNumeric():
		for i := range rec.MissingSlots() {
			missing.Codes = append(missing.Codes, String(string(slot(i))))
		}
	case rec.MissingCount > 0:
		for i := range rec.MissingSlots() {
			missing.Codes = append(missing.Codes, Number(endian.Float64(sc.engine, slot(i))))
		}
	case rec.MissingCount == -2:
		missing.Range = &Range{
			Low:  endian.Float64(sc.engine, slot(0)),
			High: endian.Float64(sc.engine, slot(1)),
		}
	case rec.MissingCount == -3:
		missing.Range = &Range{
			Low:  endian.Float64(sc.engine, slot(0)),
			High: endian.Float64(sc.engine, slot(1)),
		}
		missing.Codes = []Value{Number(endian.Float64(sc.engine, slot(2)))}
	}

	return missing, nil
}
