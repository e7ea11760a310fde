package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mhermher/savvy/config"
	"github.com/mhermher/savvy/dataset"
	"github.com/mhermher/savvy/export"
	"github.com/mhermher/savvy/sav"
)

// run decodes every input concurrently and writes the reports to w in
// argument order.
func run(ctx context.Context, cfg *config.Config, inputs []string, w io.Writer, logger *slog.Logger) error {
	return runWith(ctx, cfg, newOpener(ctx, cfg), inputs, w, logger)
}

func runWith(ctx context.Context, cfg *config.Config, o *opener, inputs []string, w io.Writer, logger *slog.Logger) error {
	enc, flush, err := newEncoder(w, cfg.Output.Format)
	if err != nil {
		return err
	}

	var sink *sqliteSink
	if cfg.Output.SQLite != "" {
		db, err := export.OpenSQLite(cfg.Output.SQLite)
		if err != nil {
			return err
		}
		defer db.Close()
		sink = &sqliteSink{db: db}
	}

	reports := make([]*report, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, input := range inputs {
		g.Go(func() error {
			r, err := process(gctx, cfg, o, sink, input, logger.With("input", input))
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			reports[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", r.File, err)
		}
	}

	return flush()
}

func process(ctx context.Context, cfg *config.Config, o *opener, sink *sqliteSink, input string, logger *slog.Logger) (*report, error) {
	src, err := o.open(ctx, input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r, err := sav.NewReader(src,
		sav.WithLogger(logger),
		sav.WithStrictVariableCount(cfg.Reader.StrictVariableCount),
	)
	if err != nil {
		return nil, err
	}

	rep := &report{File: input}
	mode := strings.ToLower(cfg.Output.Mode)

	if sink == nil {
		switch mode {
		case "meta":
			m, err := r.Meta()
			if err != nil {
				return nil, err
			}
			rep.Meta = newMetaReport(m)

			return rep, nil
		case "schema":
			s, err := r.Schema()
			if err != nil {
				return nil, err
			}
			schemaReport(rep, s)

			return rep, nil
		}
	}

	parsed, err := r.All()
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded", "cases", len(parsed.Rows), "slots", len(parsed.Headers))

	ds, err := dataset.New(parsed,
		dataset.WithCharset(cfg.Reader.Charset),
		dataset.WithLongNames(cfg.Reader.LongNames),
		dataset.WithMissingSuppressed(cfg.Reader.SuppressMissing),
	)
	if err != nil {
		return nil, err
	}

	if sink != nil {
		table := tableName(input)
		if err := sink.write(ctx, table, ds); err != nil {
			return nil, err
		}
		logger.Info("exported", "table", table, "rows", ds.N())
	}

	switch mode {
	case "meta":
		rep.Meta = newMetaReport(parsed.Meta)
	case "schema":
		schemaReport(rep, sav.Schema{Meta: parsed.Meta, Headers: parsed.Headers, Internal: parsed.Internal})
	case "all":
		allReport(rep, ds)
	case "describe":
		if err := describeReport(rep, ds); err != nil {
			return nil, err
		}
	}

	return rep, nil
}

// sqliteSink serializes exports; SQLite allows one writer at a time.
type sqliteSink struct {
	mu sync.Mutex
	db *sql.DB
}

func (s *sqliteSink) write(ctx context.Context, table string, ds *dataset.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return export.ToSQLite(ctx, s.db, table, ds, export.WithReplace(true))
}

// tableName derives a table name from the base name of an input, without
// extensions.
func tableName(input string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimPrefix(input, "s3://"), `\`, "/"))
	if name, _, ok := strings.Cut(base, "."); ok && name != "" {
		base = name
	}

	return base
}
