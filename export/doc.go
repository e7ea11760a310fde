// Package export writes decoded datasets into SQLite tables.
//
// Each dataset column becomes one table column. Numeric columns are REAL,
// string columns TEXT, and labelled (factor) columns TEXT holding the value
// label, falling back to the number when a value has no label. Missing
// values are written as NULL. SQLite caps a table at MaxColumns columns, so
// wider files fail with ErrTooManyColumns before anything is written; select
// a subset with Dataset.Cols first. A whole dataset is inserted in a single
// transaction:
//
//	db, err := export.OpenSQLite("survey.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	err = export.ToSQLite(ctx, db, "survey", ds, export.WithReplace(true))
package export
