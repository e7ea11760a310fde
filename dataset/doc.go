// Package dataset projects a decoded system file into named, typed columns.
//
// sav.Reader returns raw slots: one value per 8-byte slot, long strings
// split over continuation slots, value labels addressed by slot position.
// New turns that into one Column per logical variable:
//
//   - continuation slots and very long string segments are folded into a
//     single string value
//   - value label tables are attached to the variables they address; a
//     labelled numeric variable becomes a Factor column
//   - user-missing codes and ranges are suppressed to null on read
//   - long variable names replace short ones
//   - text is decoded from the file's character set to UTF-8
//
// A Dataset is immutable. Col, Cols and Rows return views that share the
// underlying values without copying or mutating them, so a Dataset can be
// read from several goroutines at once.
package dataset
