package batch

import (
	"bytes"
	"regexp"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	// @charset is only recognized in its exact form at the very start
	reCharsetRule = regexp.MustCompile(`^@charset "([^"]*)";`)
)

// decode returns UTF-8 text of the stylesheet and encoding results should be
// written in (nil for UTF-8). Declared @charset wins over fallback.
func decode(data []byte, fallback encoding.Encoding) ([]byte, encoding.Encoding, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], nil, nil
	}

	enc := fallback
	if m := reCharsetRule.FindSubmatch(data); m != nil {
		if e, name := charset.Lookup(string(m[1])); e != nil {
			enc = e
			if name == "utf-8" {
				enc = nil
			}
		}
	}
	if enc == nil {
		return data, nil, nil
	}

	text, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, nil, err
	}
	return text, enc, nil
}

// encode converts wrung text back to the input encoding.
func encode(text string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(enc.NewEncoder()), []byte(text))
	return out, err
}
