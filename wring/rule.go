package wring

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"cssw/css"
)

var reLeadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// wringRule normalizes selector list, removes empty rules and duplicated
// declarations.
func (w *Wringer) wringRule(id css.NodeID) {
	n := w.sheet.Node(id)
	n.Raws.Before = ""
	n.Raws.Between = ""
	n.Raws.Semicolon = false
	n.Raws.After = ""

	if len(n.Children) == 0 || n.Selector == "" {
		w.remove(id)
		return
	}

	selectors := n.Selectors()
	for i, s := range selectors {
		selectors[i] = CanonicalizeSelector(s)
	}

	if p := w.sheet.Node(n.Parent); p.Kind == css.KindAtRule && isKeyframes(p.Name) {
		kept := selectors[:0]
		for _, s := range selectors {
			if isValidKeyframe(s) {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			w.log.Debug("Removing keyframe without valid selectors", zap.String("selector", n.Selector), zap.Int("line", n.Line))
			w.remove(id)
			return
		}
		selectors = kept
	}
	n.Selector = strings.Join(firstWins(selectors), ",")

	_, drop := LastWins(w.declarations(id), func(d css.NodeID) declKey {
		dn := w.sheet.Node(d)
		return declKey{before: dn.Raws.Before, prop: dn.Prop, between: dn.Raws.Between, value: dn.Value, important: dn.Important}
	})
	for _, d := range drop {
		w.stats.Duplicates++
		w.sheet.Remove(d)
	}
}

// declKey identifies duplicates. Importance is part of it, dropping an
// earlier !important copy would change the cascade.
type declKey struct {
	before, prop, between, value string
	important                    bool
}

func (w *Wringer) declarations(id css.NodeID) []css.NodeID {
	var decls []css.NodeID
	for _, c := range w.sheet.Children(id) {
		if w.sheet.Node(c).Kind == css.KindDecl {
			decls = append(decls, c)
		}
	}
	return decls
}

// isKeyframes matches @keyframes and its vendor prefixed forms.
func isKeyframes(name string) bool {
	name = strings.ToLower(name)
	if name == "keyframes" {
		return true
	}
	return strings.HasPrefix(name, "-") && strings.HasSuffix(name, "-keyframes")
}

// isValidKeyframe accepts from, to and percentages between 0 and 100.
func isValidKeyframe(selector string) bool {
	if selector == "from" || selector == "to" {
		return true
	}
	num := reLeadingNumber.FindString(selector)
	if num == "" {
		return false
	}
	f, err := strconv.ParseFloat(num, 64)
	return err == nil && f >= 0 && f <= 100
}
