package dataset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/sav"
)

// decoder converts file text to UTF-8. A nil decoder passes text through.
type decoder struct {
	name string
	dec  *encoding.Decoder
}

func (d decoder) decode(s string) string {
	if d.dec == nil {
		return s
	}

	out, err := d.dec.String(s)
	if err != nil {
		return s
	}

	return out
}

func newDecoder(name string) (decoder, error) {
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8", "US-ASCII", "ASCII":
		return decoder{name: strings.ToUpper(name)}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return decoder{}, fmt.Errorf("%w: %q", errs.ErrInvalidCharset, name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	return decoder{name: canonical, dec: enc.NewDecoder()}, nil
}

// fileDecoder picks the character set for a file: the explicit name if
// given, then the encoding record, then the integer info code page.
// Unknown declarations fall back to passthrough.
func fileDecoder(explicit string, in *sav.Internal) (decoder, error) {
	if explicit != "" {
		return newDecoder(explicit)
	}

	if name := in.EncodingName(); name != "" {
		if d, err := newDecoder(name); err == nil {
			return d, nil
		}
	}

	if in.Integer != nil {
		if name := codePageName(in.Integer.CharacterCode); name != "" {
			if d, err := newDecoder(name); err == nil {
				return d, nil
			}
		}
	}

	return decoder{}, nil
}

// codePageName maps a Windows code page number to an IANA name.
func codePageName(code int32) string {
	switch {
	case code == 65001:
		return "UTF-8"
	case code == 20127:
		return "US-ASCII"
	case code == 874 || (code >= 1250 && code <= 1258):
		return fmt.Sprintf("windows-%d", code)
	case code >= 28591 && code <= 28599, code == 28603, code == 28605:
		return fmt.Sprintf("ISO-8859-%d", code-28590)
	case code == 20866:
		return "KOI8-R"
	case code == 932:
		return "Shift_JIS"
	case code == 936:
		return "GBK"
	case code == 949:
		return "EUC-KR"
	case code == 950:
		return "Big5"
	default:
		return ""
	}
}
