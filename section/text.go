package section

import "bytes"

// TrimText returns b as a string with trailing blanks and NULs removed.
// Fixed-width text fields are padded with spaces by most writers and with
// NULs by a few.
func TrimText(b []byte) string {
	return string(bytes.TrimRight(b, " \x00"))
}
