package wring

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"cssw/css"
)

var (
	reValidProp       = regexp.MustCompile("(?i)^-{0,2}[^!-,./:-@\\[-^`{-~]+$")
	reHackSignProp    = regexp.MustCompile(`[_*]$`)
	reHackPropComment = regexp.MustCompile(`/\*(\\\*)?\*/`)
	reMultipleValues  = regexp.MustCompile(`(?i)^(margin|padding|border-(color|radius|spacing|style|width))$`)
)

// isHack reports whether declaration uses *prop, _prop or prop/**/: syntax
// aimed at old browsers.
func isHack(n *css.Node) bool {
	return reHackSignProp.MatchString(n.Raws.Before) || reHackPropComment.MatchString(n.Raws.Between)
}

// wringDecl rewrites a declaration in place. It returns false when the
// declaration has to be removed.
func (w *Wringer) wringDecl(n *css.Node, opts Options) bool {
	if !reValidProp.MatchString(n.Prop) {
		w.log.Debug("Removing declaration with invalid property", zap.String("prop", n.Prop), zap.Int("line", n.Line))
		return false
	}
	if !opts.PreserveHacks && isHack(n) {
		w.log.Debug("Removing hack", zap.String("prop", n.Prop), zap.Int("line", n.Line))
		return false
	}

	if opts.PreserveHacks {
		n.Raws.Before = reWhiteSpaces.ReplaceAllString(strings.ReplaceAll(n.Raws.Before, ";", ""), "")
		n.Raws.Between = reWhiteSpaces.ReplaceAllString(n.Raws.Between, "")
		if n.Raws.Between == "" {
			n.Raws.Between = ":"
		}
	} else {
		n.Raws.Before = ""
		n.Raws.Between = ":"
	}
	if n.Important {
		n.Raws.Important = "!important"
	}

	switch n.Prop {
	case "content":
		return true
	case "font-family":
		families := css.SplitComma(n.Value)
		for i, f := range families {
			families[i] = unquoteFontFamily(f)
		}
		n.Value = strings.Join(families, ",")
		return true
	}

	segments := css.SplitComma(n.Value)
	for i, s := range segments {
		segments[i] = CanonicalizeValue(n.Prop, s, opts)
	}
	value := strings.Join(segments, ",")

	if reMultipleValues.MatchString(n.Prop) {
		value = strings.Join(collapseTRBL(css.SplitSpace(value)), " ")
	}

	if n.Prop == "font-weight" {
		switch value {
		case "normal":
			value = "400"
		case "bold":
			value = "700"
		}
	}
	n.Value = value
	return true
}

// collapseTRBL drops box sides which repeat their opposite side.
func collapseTRBL(values []string) []string {
	if len(values) == 4 && values[1] == values[3] {
		values = values[:3]
	}
	if len(values) == 3 && values[0] == values[2] {
		values = values[:2]
	}
	if len(values) == 2 && values[0] == values[1] {
		values = values[:1]
	}
	return values
}
