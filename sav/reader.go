package sav

import (
	"errors"
	"log/slog"

	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/internal/options"
)

// Reader decodes a system file from a Feeder.
//
// Every method starts from offset 0 and restores the feeder position it
// found, on success and on error, so calls can be repeated. A Reader is not
// safe for concurrent use because it shares the feeder cursor.
type Reader struct {
	feeder      feeder.Feeder
	logger      *slog.Logger
	strictCount bool
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*Reader]

// WithLogger sets the logger that receives per-record debug events.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) ReaderOption {
	return options.NoError(func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// WithStrictVariableCount controls whether a header count that differs from
// the variable count declared in the file header fails the parse. Enabled
// by default; files that declare zero or a negative count are never checked.
func WithStrictVariableCount(strict bool) ReaderOption {
	return options.NoError(func(r *Reader) {
		r.strictCount = strict
	})
}

// NewReader creates a Reader over f.
func NewReader(f feeder.Feeder, opts ...ReaderOption) (*Reader, error) {
	if f == nil {
		return nil, errors.New("sav: nil feeder")
	}

	r := &Reader{
		feeder:      f,
		logger:      slog.New(slog.DiscardHandler),
		strictCount: true,
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Meta decodes the file header.
func (r *Reader) Meta() (Meta, error) {
	var meta Meta
	err := r.preserve(func(sc *scanner) error {
		var err error
		meta, err = r.readMeta(sc)

		return err
	})

	return meta, err
}

// Headers decodes the file header and the variable records that follow.
func (r *Reader) Headers() ([]Header, error) {
	var headers []Header
	err := r.preserve(func(sc *scanner) error {
		meta, err := r.readMeta(sc)
		if err != nil {
			return err
		}
		headers, err = r.readHeaders(sc, meta)

		return err
	})

	return headers, err
}

// Schema decodes the whole dictionary up to and including the terminator
// record. Case data is not touched.
func (r *Reader) Schema() (Schema, error) {
	var schema Schema
	err := r.preserve(func(sc *scanner) error {
		var err error
		schema, err = r.readSchema(sc)

		return err
	})

	return schema, err
}

// All decodes the dictionary and every case.
func (r *Reader) All() (Parsed, error) {
	var parsed Parsed
	err := r.preserve(func(sc *scanner) error {
		schema, err := r.readSchema(sc)
		if err != nil {
			return err
		}

		rows, err := newInstructor(sc, schema.Headers, schema.Meta.Bias).rows(schema.Meta.Cases)
		if err != nil {
			return err
		}

		r.logger.Debug("cases", "rows", len(rows), "end", sc.position())

		parsed = Parsed{
			Meta:     schema.Meta,
			Headers:  schema.Headers,
			Internal: schema.Internal,
			Rows:     rows,
		}

		return nil
	})

	return parsed, err
}

func (r *Reader) readSchema(sc *scanner) (Schema, error) {
	meta, err := r.readMeta(sc)
	if err != nil {
		return Schema{}, err
	}

	headers, err := r.readHeaders(sc, meta)
	if err != nil {
		return Schema{}, err
	}

	internal, err := r.readInternal(sc)
	if err != nil {
		return Schema{}, err
	}

	return Schema{Meta: meta, Headers: headers, Internal: internal}, nil
}

// preserve runs fn from offset 0 and puts the cursor back afterwards.
func (r *Reader) preserve(fn func(sc *scanner) error) (err error) {
	saved := r.feeder.Position()
	defer func() {
		if jerr := r.feeder.Jump(saved); jerr != nil && err == nil {
			err = jerr
		}
	}()

	if err := r.feeder.Jump(0); err != nil {
		return err
	}

	return fn(newScanner(r.feeder))
}
