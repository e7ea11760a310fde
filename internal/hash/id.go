// Package hash computes the identifiers used to index columns by name.
package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// FoldID computes the ID of a variable name ignoring case, since variable
// names in a system file are case-insensitive.
func FoldID(name string) uint64 {
	return ID(strings.ToUpper(name))
}
