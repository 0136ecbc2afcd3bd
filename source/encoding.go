package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// LookupEncoding resolves IANA character set name. UTF-8 (and empty name)
// resolves to nil - such sources are read directly and validated.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown character set %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("character set %q is not supported", name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// EncodingName returns IANA name of the encoding for logging.
func EncodingName(enc encoding.Encoding) string {
	if enc == nil {
		return "UTF-8"
	}
	if n, err := ianaindex.IANA.Name(enc); err == nil {
		return n
	}
	return fmt.Sprintf("%v", enc)
}
