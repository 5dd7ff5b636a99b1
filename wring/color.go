package wring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/lucasb-eyer/go-colorful"
	tdcss "github.com/tdewolff/parse/v2/css"
)

// lead matches whatever may precede a value token inside a declaration value.
const lead = `(^|\s|\(|,)`

var (
	reColorFunction    = regexp.MustCompile(`(?i)` + lead + `((?:rgb|hsl)a?\(.*?\))`)
	reColorTransparent = regexp.MustCompile(`(?i)` + lead + `rgba\(0,0,0,0\)`)
	// 8 digit hex colors carry alpha and must not be cut to 6 digits.
	reColorHex = regexp2.MustCompile(lead+`#([0-9a-f]{2})([0-9a-f]{2})([0-9a-f]{2})(?![0-9a-f])`, regexp2.IgnoreCase)
)

// shortestColorNames maps hex colors to keywords which are shorter than the
// hex form. Red is absent: "red" would win over "#f00" by a single byte, yet
// #f00 is the expected canonical output for pure red.
var shortestColorNames = map[string]string{
	"#000080": "navy",
	"#008000": "green",
	"#008080": "teal",
	"#4b0082": "indigo",
	"#800000": "maroon",
	"#800080": "purple",
	"#808000": "olive",
	"#808080": "gray",
	"#a0522d": "sienna",
	"#a52a2a": "brown",
	"#c0c0c0": "silver",
	"#cd853f": "peru",
	"#d2b48c": "tan",
	"#da70d6": "orchid",
	"#dda0dd": "plum",
	"#ee82ee": "violet",
	"#f0e68c": "khaki",
	"#f0ffff": "azure",
	"#f5deb3": "wheat",
	"#f5f5dc": "beige",
	"#fa8072": "salmon",
	"#faf0e6": "linen",
	"#ff6347": "tomato",
	"#ff7f50": "coral",
	"#ffa500": "orange",
	"#ffc0cb": "pink",
	"#ffd700": "gold",
	"#ffe4c4": "bisque",
	"#fffafa": "snow",
	"#fffff0": "ivory",
}

// foldColorFunctions converts rgb(), rgba(), hsl() and hsla() to hex when the
// color is opaque and to rgba(r,g,b,a) otherwise. Opaque results carry a
// trailing space which later whitespace steps remove.
func foldColorFunctions(_, value string, _ Options) string {
	return reColorFunction.ReplaceAllStringFunc(value, func(m string) string {
		sub := reColorFunction.FindStringSubmatch(m)
		c, alpha, ok := parseColorFunction(sub[2])
		if !ok {
			return m
		}
		if alpha < 1 {
			r, g, b := c.RGB255()
			return fmt.Sprintf("%srgba(%d,%d,%d,%s)", sub[1], r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
		}
		return sub[1] + c.Hex() + " "
	})
}

// parseColorFunction understands both legacy comma separated and modern
// space separated arguments with optional "/ alpha".
func parseColorFunction(fn string) (colorful.Color, float64, bool) {
	open := strings.IndexByte(fn, '(')
	if open < 0 || !strings.HasSuffix(fn, ")") {
		return colorful.Color{}, 0, false
	}
	name := strings.TrimSuffix(strings.ToLower(fn[:open]), "a")
	args := colorArguments(fn[open+1 : len(fn)-1])
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, false
	}

	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseFraction(args[3], 1)
		if !ok {
			return colorful.Color{}, 0, false
		}
		alpha = clamp(a)
	}

	switch name {
	case "rgb":
		var ch [3]float64
		for i := range ch {
			v, ok := parseFraction(args[i], 255)
			if !ok {
				return colorful.Color{}, 0, false
			}
			ch[i] = v
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped(), alpha, true
	case "hsl":
		h, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(args[0]), "deg"), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		if !strings.HasSuffix(args[1], "%") || !strings.HasSuffix(args[2], "%") {
			return colorful.Color{}, 0, false
		}
		s, ok1 := parseFraction(args[1], 1)
		l, ok2 := parseFraction(args[2], 1)
		if !ok1 || !ok2 {
			return colorful.Color{}, 0, false
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		r, g, b := tdcss.HSL2RGB(h/360, clamp(s), clamp(l))
		return colorful.Color{R: r, G: g, B: b}.Clamped(), alpha, true
	}
	return colorful.Color{}, 0, false
}

func colorArguments(s string) []string {
	var args []string
	if strings.Contains(s, ",") {
		args = strings.Split(s, ",")
	} else {
		args = strings.Fields(strings.ReplaceAll(s, "/", " / "))
		if len(args) == 5 && args[3] == "/" {
			args = append(args[:3], args[4])
		} else if len(args) != 3 {
			return nil
		}
	}
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args
}

// parseFraction parses a number or percentage into [0,1] range units, scale
// being the value of a plain number which corresponds to 1.
func parseFraction(s string, scale float64) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return v / 100, err == nil
	}
	v, err := strconv.ParseFloat(s, 64)
	return v / scale, err == nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// shortenHexColors lowercases 6 digit hex colors, reduces them to 3 digits
// when channel pairs repeat and substitutes shorter keywords.
func shortenHexColors(_, value string, _ Options) string {
	return replace2(reColorHex, value, func(m regexp2.Match) string {
		r, g, b := group(m, 2), group(m, 3), group(m, 4)
		c := strings.ToLower("#" + r + g + b)
		if c[1] == c[2] && c[3] == c[4] && c[5] == c[6] {
			c = "#" + c[1:2] + c[3:4] + c[5:6]
		}
		if name, ok := shortestColorNames[c]; ok {
			c = name
		}
		return group(m, 1) + c
	})
}

// foldTransparent replaces fully transparent black with its keyword.
func foldTransparent(_, value string, _ Options) string {
	return reColorTransparent.ReplaceAllString(value, "${1}transparent ")
}

// replace2 runs fn over every match of re, leaving value untouched when the
// engine gives up.
func replace2(re *regexp2.Regexp, value string, fn regexp2.MatchEvaluator) string {
	out, err := re.ReplaceFunc(value, fn, -1, -1)
	if err != nil {
		return value
	}
	return out
}

func group(m regexp2.Match, n int) string {
	return m.GroupByNumber(n).String()
}
