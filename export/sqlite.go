package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/mhermher/savvy/dataset"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/internal/options"
)

// DriverName is the database/sql driver used by OpenSQLite.
const DriverName = "sqlite3"

// MaxColumns is SQLite's default SQLITE_MAX_COLUMN. Wider datasets must be
// narrowed with Dataset.Cols before export.
const MaxColumns = 2000

type settings struct {
	replace bool
}

// Option configures ToSQLite.
type Option = options.Option[*settings]

// WithReplace drops an existing table of the same name before creating it.
// Without it, writing into an existing table fails.
func WithReplace(replace bool) Option {
	return options.NoError(func(s *settings) {
		s.replace = replace
	})
}

// OpenSQLite opens (creating if needed) a SQLite database file in WAL mode.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("export: failed to open %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("export: failed to set journal mode: %w", err)
	}

	return db, nil
}

// ToSQLite creates table in db and inserts every row of ds.
func ToSQLite(ctx context.Context, db *sql.DB, table string, ds *dataset.Dataset, opts ...Option) (err error) {
	cfg := &settings{}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	if strings.TrimSpace(table) == "" || strings.ContainsRune(table, 0) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidTableName, table)
	}

	columns := ds.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("%w: dataset has no columns", errs.ErrColumnNotFound)
	}
	if len(columns) > MaxColumns {
		return fmt.Errorf("%w: %d columns, SQLite allows %d", errs.ErrTooManyColumns, len(columns), MaxColumns)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("export: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if cfg.replace {
		if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
			return fmt.Errorf("export: failed to drop table %s: %w", table, err)
		}
	}

	if _, err = tx.ExecContext(ctx, createStatement(table, columns)); err != nil {
		return fmt.Errorf("export: failed to create table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(table, len(columns)))
	if err != nil {
		return fmt.Errorf("export: failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i := range ds.N() {
		for j, c := range columns {
			args[j] = cell(c, i)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("export: failed to insert row %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("export: failed to commit: %w", err)
	}

	return nil
}

// SQLType returns the column type used for c.
func SQLType(c *dataset.Column) string {
	switch {
	case c.Kind() == dataset.KindFactor:
		return "TEXT"
	case c.IsNumeric():
		return "REAL"
	default:
		return "TEXT"
	}
}

func cell(c *dataset.Column, row int) any {
	if c.Kind() == dataset.KindFactor {
		v := c.Any(row)
		if f, ok := v.(float64); ok {
			return fmt.Sprint(f)
		}

		return v
	}

	return c.Value(row).Any()
}

func createStatement(table string, columns []*dataset.Column) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quote(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(c.Name()))
		b.WriteByte(' ')
		b.WriteString(SQLType(c))
	}
	b.WriteString(")")

	return b.String()
}

func insertStatement(table string, n int) string {
	return "INSERT INTO " + quote(table) + " VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

// quote returns name as a SQLite identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
