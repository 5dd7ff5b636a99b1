package wring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// valueStep is one canonicalization applied to a single comma separated value
// segment of property prop.
type valueStep func(prop, value string, opts Options) string

// valueSteps run strictly in this order, each consuming the previous output.
var valueSteps = []struct {
	name  string
	apply valueStep
}{
	{"foldColorFunctions", foldColorFunctions},
	{"shortenHexColors", shortenHexColors},
	{"foldTransparent", foldTransparent},
	{"collapseWhitespace", collapseWhitespace},
	{"stripLeadingZeros", stripLeadingZeros},
	{"stripZeroUnits", stripZeroUnits},
	{"trimDecimalZeros", trimDecimalZeros},
	{"shortenTimes", shortenTimes},
	{"shortenAngles", shortenAngles},
	{"shortenFrequencies", shortenFrequencies},
	{"unquoteURLs", unquoteURLs},
	{"compactCalc", compactCalc},
}

// CanonicalizeValue rewrites a single comma separated segment of a value of
// property prop into its shortest equivalent form.
func CanonicalizeValue(prop, value string, opts Options) string {
	for _, step := range valueSteps {
		value = step.apply(prop, value, opts)
	}
	return value
}

var (
	reWhiteSpaces             = regexp.MustCompile(`\s+`)
	reWhiteSpacesAfterSymbol  = regexp.MustCompile(`([(,:])\s`)
	reWhiteSpacesBeforeSymbol = regexp.MustCompile(`\s([),:])`)
	reWhiteSpacesAroundOp     = regexp.MustCompile(`\s([*/])\s`)

	reLeadingZeros   = regexp.MustCompile(lead + `0+([1-9]\d*(\.\d+)?)`)
	reZeroUnit       = regexp.MustCompile(`(?i)` + lead + `(0)(%|ch|cm|deg|dpcm|dpi|dppx|em|ex|grad|Hz|in|kHz|mm|ms|pc|pt|px|rad|rem|s|turn|vh|vmax|vmin|vw)`)
	reDecimalZeros   = regexp.MustCompile(lead + `(-)?0*([1-9]\d*)?\.(\d*[1-9])0*`)
	reTimeEndsInZero = regexp.MustCompile(`(?i)` + lead + `(\d{2,})0ms`)
	reAngle          = regexp.MustCompile(`(?i)` + lead + `([1-9]\d*)(grad)`)
	reFrequency      = regexp.MustCompile(`(?i)` + lead + `(\d+)000Hz`)
	reCalc           = regexp.MustCompile(lead + `calc\((([^()]*(\([^()]*\))?)*)\)`)
	reEscapedBraces  = regexp.MustCompile(`\\([()])`)
	reURLNeedsQuote  = regexp.MustCompile(`[\s()"']`)

	reURLFunction = regexp2.MustCompile(lead+`url\((.*?[^\\])\)(?=$|\s|\)|,)`, regexp2.IgnoreCase)
)

// zeroUnitSynonyms lists units which must survive on a zero value together
// with the shortest unit of the same dimension. Keys are lowercase.
var zeroUnitSynonyms = map[string]string{
	"deg":  "deg",
	"grad": "deg",
	"rad":  "deg",
	"turn": "deg",
	"s":    "s",
	"ms":   "s",
	"hz":   "Hz",
	"khz":  "Hz",
	"dpi":  "dpi",
	"dpcm": "dpi",
	"dppx": "dpi",
}

// collapseWhitespace trims the value, squeezes whitespace runs and removes
// spaces next to parentheses, commas and colons.
func collapseWhitespace(_, value string, _ Options) string {
	value = reWhiteSpaces.ReplaceAllString(strings.TrimSpace(value), " ")
	value = reWhiteSpacesAfterSymbol.ReplaceAllString(value, "$1")
	return reWhiteSpacesBeforeSymbol.ReplaceAllString(value, "$1")
}

func stripLeadingZeros(_, value string, _ Options) string {
	return reLeadingZeros.ReplaceAllString(value, "${1}${2}")
}

// stripZeroUnits drops units from zero lengths and percentages. Zero times,
// angles, frequencies and resolutions keep the shortest unit of their kind.
func stripZeroUnits(prop, value string, opts Options) string {
	switch prop {
	case "flex", "-ms-flex", "-webkit-flex", "flex-basis", "-webkit-flex-basis":
		return value
	}
	if strings.HasPrefix(prop, "--") || strings.Contains(value, "calc(") {
		return value
	}
	return reZeroUnit.ReplaceAllStringFunc(value, func(m string) string {
		sub := reZeroUnit.FindStringSubmatch(m)
		unit := sub[3]
		// IE min-width:0% hack
		if opts.PreserveHacks && prop == "min-width" && unit == "%" {
			return m
		}
		if canonical, ok := zeroUnitSynonyms[strings.ToLower(unit)]; ok {
			return sub[1] + sub[2] + canonical
		}
		return sub[1] + sub[2]
	})
}

func trimDecimalZeros(_, value string, _ Options) string {
	return reDecimalZeros.ReplaceAllString(value, "${1}${2}${3}.${4}")
}

// shortenTimes converts round milliseconds to seconds: 3210ms -> 3.21s.
func shortenTimes(_, value string, _ Options) string {
	return reTimeEndsInZero.ReplaceAllStringFunc(value, func(m string) string {
		sub := reTimeEndsInZero.FindStringSubmatch(m)
		n, err := strconv.Atoi(sub[2])
		if err != nil {
			return m
		}
		s := strings.TrimLeft(strconv.FormatFloat(float64(n)/100, 'f', -1, 64), "0")
		if s == "" {
			s = "0"
		}
		return sub[1] + s + "s"
	})
}

// shortenAngles converts grads divisible by 10 to degrees.
func shortenAngles(_, value string, _ Options) string {
	return reAngle.ReplaceAllStringFunc(value, func(m string) string {
		sub := reAngle.FindStringSubmatch(m)
		n, err := strconv.Atoi(sub[2])
		if err != nil || n%10 != 0 {
			return m
		}
		return sub[1] + strconv.Itoa(n/10*9) + "deg"
	})
}

func shortenFrequencies(_, value string, _ Options) string {
	return reFrequency.ReplaceAllString(value, "${1}${2}kHz")
}

// unquoteURLs removes quotes inside url() unless the address needs them.
func unquoteURLs(_, value string, _ Options) string {
	return replace2(reURLFunction, value, func(m regexp2.Match) string {
		quote, url := splitQuote(group(m, 2))
		url = reEscapedBraces.ReplaceAllString(url, "$1")
		if reURLNeedsQuote.MatchString(url) {
			url = quote + url + quote
		}
		return group(m, 1) + "url(" + url + ")"
	})
}

// compactCalc removes whitespace around * and / in the first calc().
func compactCalc(_, value string, _ Options) string {
	loc := reCalc.FindStringSubmatchIndex(value)
	if loc == nil {
		return value
	}
	inner := reWhiteSpacesAroundOp.ReplaceAllString(value[loc[4]:loc[5]], "$1")
	return value[:loc[0]] + value[loc[2]:loc[3]] + "calc(" + inner + ")" + value[loc[1]:]
}
