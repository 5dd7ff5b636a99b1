package css

import "strings"

// SplitComma splits a comma separated list (selectors, value layers, font
// families) ignoring commas inside quotes, parentheses and escapes. Items are
// trimmed.
func SplitComma(s string) []string {
	return split(s, ",", true)
}

// SplitSpace splits a whitespace separated list of values with the same
// rules as SplitComma.
func SplitSpace(s string) []string {
	return split(s, " \n\t", false)
}

func split(s, separators string, last bool) []string {
	var (
		items   []string
		current strings.Builder
		depth   int
		quote   rune
		escape  bool
	)
	for _, r := range s {
		sep := false
		switch {
		case escape:
			escape = false
		case r == '\\':
			escape = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sep = strings.ContainsRune(separators, r)
		}
		if !sep {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			items = append(items, strings.TrimSpace(current.String()))
		}
		current.Reset()
	}
	if last || current.Len() > 0 {
		items = append(items, strings.TrimSpace(current.String()))
	}
	return items
}
