package dataset

import (
	"github.com/mhermher/savvy/internal/options"
)

type settings struct {
	charset   string
	longNames bool
	suppress  bool
}

func defaultSettings() *settings {
	return &settings{longNames: true, suppress: true}
}

// Option configures New.
type Option = options.Option[*settings]

// WithCharset decodes text with the named IANA character set instead of
// the one the file declares.
func WithCharset(name string) Option {
	return options.NoError(func(s *settings) {
		s.charset = name
	})
}

// WithLongNames controls whether long variable names replace the 8-byte
// short names. Enabled by default.
func WithLongNames(enabled bool) Option {
	return options.NoError(func(s *settings) {
		s.longNames = enabled
	})
}

// WithMissingSuppressed controls whether user-missing values read as null
// through Column.Value, Column.Values and Dataset.Row. Enabled by default.
func WithMissingSuppressed(enabled bool) Option {
	return options.NoError(func(s *settings) {
		s.suppress = enabled
	})
}
