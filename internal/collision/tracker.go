// Package collision tracks column names while a dataset index is built.
package collision

import (
	"fmt"

	"github.com/mhermher/savvy/errs"
)

// Tracker records column names with their hashes. It rejects empty and
// duplicate names and notes when two different names share a hash, in
// which case the caller must index by name instead of by hash.
type Tracker struct {
	names        map[uint64]string // hash → name
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{names: make(map[uint64]string)}
}

// Track records name under hash.
//
// Returns ErrInvalidColumnName for an empty name and ErrDuplicateColumn when
// the same name was already tracked under the same hash. A different name
// with the same hash is not an error; it only sets the collision flag.
func (t *Tracker) Track(name string, hash uint64) error {
	if name == "" {
		return errs.ErrInvalidColumnName
	}

	if existing, exists := t.names[hash]; exists {
		if existing == name {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateColumn, name)
		}
		t.hasCollision = true

		return nil
	}
	t.names[hash] = name

	return nil
}

// HasCollision returns true if two tracked names share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}
