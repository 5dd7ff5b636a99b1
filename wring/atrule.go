package wring

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"cssw/css"
)

var (
	reFontFaceDescriptor = regexp.MustCompile(`(?i)^font-(style|stretch|variant|feature-settings)$`)
	reUnicodeRangeAll    = regexp.MustCompile(`(?i)u\+0{1,6}-10ffff`)
	reDeclInParentheses  = regexp.MustCompile(`\(([-*_a-zA-Z0-9]+):(([^()]*(\([^()]*\))?)*)\)`)
	reSupportsJunction   = regexp.MustCompile(`(?i)\)(and|or)\b`)
)

// wringAtRule normalizes parameters of an at-rule and removes at-rules
// which ended up empty. It is called for children before their parents.
func (w *Wringer) wringAtRule(id css.NodeID) {
	n := w.sheet.Node(id)
	n.Raws.Before = ""
	n.Raws.AfterName = " "
	n.Raws.Between = ""
	n.Raws.Semicolon = false
	n.Raws.After = ""

	name := strings.ToLower(n.Name)
	if name == "charset" {
		return
	}

	if name == "font-face" {
		if !w.wringFontFace(id) {
			w.log.Debug("Removing @font-face without src and font-family", zap.Int("line", n.Line))
			w.remove(id)
			return
		}
	}

	if n.HasBlock && len(n.Children) == 0 {
		w.log.Debug("Removing empty at-rule", zap.String("name", n.Name), zap.Int("line", n.Line))
		w.remove(id)
		return
	}

	params := collapseParams(n.Params)
	switch {
	case name == "import":
		params = quoteImport(unwrapURL(params))
	case name == "namespace":
		params = quoteNamespace(unwrapURL(params))
	case isKeyframes(name):
		_, params = splitQuote(params)
	case name == "supports":
		params = w.wringSupports(params)
	}
	n.Params = params

	if params == "" || params[0] == '(' || params[0] == '"' || params[0] == '\'' {
		n.Raws.AfterName = ""
	}
}

// wringFontFace removes descriptors set to their initial values. It returns
// false when the rule lacks src and font-family.
func (w *Wringer) wringFontFace(id css.NodeID) bool {
	decls := w.declarations(id)
	required := 0
	for _, d := range decls {
		if p := w.sheet.Node(d).Prop; p == "src" || p == "font-family" {
			required++
		}
	}
	if required < 2 {
		return false
	}
	for _, d := range decls {
		dn := w.sheet.Node(d)
		if (reFontFaceDescriptor.MatchString(dn.Prop) && dn.Value == "normal") ||
			(dn.Prop == "unicode-range" && reUnicodeRangeAll.MatchString(dn.Value)) ||
			(dn.Prop == "font-weight" && dn.Value == "400") {
			w.remove(d)
		}
	}
	return true
}

// collapseParams squeezes whitespace and removes it next to parentheses,
// commas and colons.
func collapseParams(params string) string {
	params = reWhiteSpaces.ReplaceAllString(params, " ")
	params = reWhiteSpacesAfterSymbol.ReplaceAllString(params, "$1")
	return reWhiteSpacesBeforeSymbol.ReplaceAllString(params, "$1")
}

// unwrapURL replaces url(x) with x.
func unwrapURL(params string) string {
	return replace2(reURLFunction, params, func(m regexp2.Match) string {
		return group(m, 1) + group(m, 2)
	})
}

// quoteImport quotes the target of @import leaving media queries alone.
func quoteImport(params string) string {
	if params == "" {
		return params
	}
	target, rest := params, ""
	if c := params[0]; c == '"' || c == '\'' {
		if i := strings.IndexByte(params[1:], c); i >= 0 {
			target, rest = params[:i+2], params[i+2:]
		}
	} else if i := strings.IndexByte(params, ' '); i >= 0 {
		target, rest = params[:i], params[i:]
	}
	quote, target := splitQuote(target)
	return quote + target + quote + rest
}

// quoteNamespace quotes the namespace URI, which is always the last
// parameter. Tokens are joined without spaces as quotes separate them.
func quoteNamespace(params string) string {
	tokens := css.SplitSpace(params)
	if len(tokens) == 0 {
		return params
	}
	last := len(tokens) - 1
	// prefix"uri" produced by a previous run
	if i := strings.IndexAny(tokens[last], `"'`); i > 0 {
		tok := tokens[last]
		tokens = append(tokens[:last], tok[:i], tok[i:])
		last++
	}
	quote, uri := splitQuote(tokens[last])
	tokens[last] = quote + uri + quote
	return strings.Join(tokens, "")
}

// wringSupports minifies every (prop:value) condition as a declaration.
func (w *Wringer) wringSupports(params string) string {
	params = reDeclInParentheses.ReplaceAllStringFunc(params, func(m string) string {
		sub := reDeclInParentheses.FindStringSubmatch(m)
		decl := css.NewDecl(sub[1], sub[2])
		if !w.wringDecl(decl, Options{}) {
			return m
		}
		return "(" + decl.String() + ")"
	})
	return reSupportsJunction.ReplaceAllString(params, ") $1")
}
