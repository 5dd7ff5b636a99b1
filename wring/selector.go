package wring

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	reSelectorAttribute  = regexp2.MustCompile(`\[\s*(.*?)(?:\s*([~|^$*]?=)\s*(("|').*\4|.*?[^\\]))?\s*(i)?\]`, regexp2.None)
	reSelectorFunctions  = regexp.MustCompile(`(?i):(lang|nth-(?:last-)?(?:child|of-type))\((.*?[^\\])\)`)
	reSelectorNegation   = regexp.MustCompile(`(?i):not\((([^()]*(\([^()]*\))?)*)\)`)
	reSelectorCombinator = regexp.MustCompile(`\s+((\\?)[>+~])\s+`)
	reSelectorPseudo     = regexp2.MustCompile(`(:)\1(?=after|before|first-(letter|line))`, regexp2.None)
)

type selectorStep func(selector string) string

// selectorSteps run strictly in this order.
var selectorSteps = []struct {
	name  string
	apply selectorStep
}{
	{"collapseSelectorWhitespace", collapseSelectorWhitespace},
	{"unquoteAttributeSelectors", unquoteAttributeSelectors},
	{"compactSelectorFunctions", compactSelectorFunctions},
	{"trimNegation", trimNegation},
	{"compactCombinators", compactCombinators},
	{"legacyPseudoElements", legacyPseudoElements},
	{"dropVerboseUniversal", dropVerboseUniversal},
}

// CanonicalizeSelector rewrites a single selector (no top level commas) into
// its shortest equivalent form.
func CanonicalizeSelector(selector string) string {
	for _, step := range selectorSteps {
		selector = step.apply(selector)
	}
	return selector
}

func collapseSelectorWhitespace(selector string) string {
	return reWhiteSpaces.ReplaceAllString(selector, " ")
}

// unquoteAttributeSelectors normalizes [attr op value flag] dropping quotes
// around values which are plain identifiers.
func unquoteAttributeSelectors(selector string) string {
	return replace2(reSelectorAttribute, selector, func(m regexp2.Match) string {
		attr, op, val := group(m, 1), group(m, 2), group(m, 3)
		if op == "" || val == "" {
			return "[" + attr + "]"
		}
		quote, val := splitQuote(strings.TrimSpace(val))
		if !canUnquote(val) {
			val = quote + val + quote
		}
		if group(m, 5) != "" {
			val += " i"
		}
		return "[" + attr + op + val + "]"
	})
}

// compactSelectorFunctions removes all whitespace from arguments of :lang()
// and :nth-*() pseudo classes.
func compactSelectorFunctions(selector string) string {
	return reSelectorFunctions.ReplaceAllStringFunc(selector, func(m string) string {
		return reWhiteSpaces.ReplaceAllString(m, "")
	})
}

func trimNegation(selector string) string {
	return reSelectorNegation.ReplaceAllStringFunc(selector, func(m string) string {
		sub := reSelectorNegation.FindStringSubmatch(m)
		return ":not(" + strings.TrimSpace(sub[1]) + ")"
	})
}

// compactCombinators removes whitespace around >, + and ~. Escaped
// combinators are part of an identifier and keep a single space on each side.
func compactCombinators(selector string) string {
	return reSelectorCombinator.ReplaceAllStringFunc(selector, func(m string) string {
		sub := reSelectorCombinator.FindStringSubmatch(m)
		if sub[2] != "" {
			return " " + sub[1] + " "
		}
		return sub[1]
	})
}

// legacyPseudoElements writes CSS2 pseudo elements with a single colon.
func legacyPseudoElements(selector string) string {
	return replace2(reSelectorPseudo, selector, func(m regexp2.Match) string {
		return group(m, 1)
	})
}

// dropVerboseUniversal removes '*' in front of id, class, pseudo and
// attribute selectors. Quoted attribute values and escapes are left as is.
func dropVerboseUniversal(selector string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case c == '\\' && i+1 < len(selector):
			sb.WriteByte(c)
			i++
			c = selector[i]
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '*' && i+1 < len(selector) && strings.IndexByte("#.:[", selector[i+1]) >= 0:
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
