package wring

import (
	"regexp"
	"strings"

	"cssw/css"
)

var (
	reIdentifiers = regexp.MustCompile(`^[\w-]+$`)
	reVarFunction = regexp.MustCompile(`(?i)^var\([\w-]+\)$`)
)

// splitQuote strips a surrounding pair of quotes from s. Anything following
// the closing quote is kept in body. When s is not quoted the default double
// quote is returned so callers can re-wrap with it.
func splitQuote(s string) (quote string, body string) {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		if i := strings.LastIndexByte(s, s[0]); i > 0 {
			return s[:1], s[1:i] + s[i+1:]
		}
	}
	return `"`, s
}

// canUnquote reports whether token is safe to emit without quotes.
func canUnquote(token string) bool {
	if token == "" || isDigit(token[0]) {
		return false
	}
	if token[0] == '-' && (len(token) == 1 || token[1] == '-' || isDigit(token[1])) {
		return false
	}
	return reIdentifiers.MatchString(token)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// unquoteFontFamily drops quotes around a family name when every word of it
// is a plain identifier.
func unquoteFontFamily(family string) string {
	if reVarFunction.MatchString(family) {
		return family
	}
	quote, family := splitQuote(family)
	for _, word := range css.SplitSpace(family) {
		if !canUnquote(word) {
			return quote + family + quote
		}
	}
	return family
}
