package wring

import (
	"strings"

	"go.uber.org/zap"

	"cssw/css"
)

// isSourceMapAnnotation reports whether the comment is a trailing
// "# sourceMappingURL=" annotation of the stylesheet.
func (w *Wringer) isSourceMapAnnotation(id css.NodeID) bool {
	n := w.sheet.Node(id)
	return n.Parent == w.sheet.Root() && w.sheet.IsLast(id) &&
		strings.HasPrefix(strings.ToLower(n.Text), "# sourcemappingurl=")
}

// wringComment removes comments except source map annotations and, unless
// all comments are to be removed, "/*!" ones.
func (w *Wringer) wringComment(id css.NodeID) {
	n := w.sheet.Node(id)
	if (w.opts.RemoveAllComments || !strings.HasPrefix(n.Text, "!")) && !w.isSourceMapAnnotation(id) {
		w.remove(id)
		return
	}
	n.Raws.Before = ""
}

// filterTopLevel keeps a single leading @charset and drops @charset and
// @import rules which appear after any other statement.
func (w *Wringer) filterTopLevel() {
	var seenCharset, disqualified bool
	for _, id := range w.sheet.Children(w.sheet.Root()) {
		n := w.sheet.Node(id)
		if n.Kind == css.KindComment {
			continue
		}
		name := strings.ToLower(n.Name)
		if n.Kind != css.KindAtRule || (name != "charset" && name != "import") {
			disqualified = true
			continue
		}
		if name == "charset" && !seenCharset && !disqualified {
			seenCharset = true
			continue
		}
		if disqualified || name == "charset" {
			w.log.Debug("Removing misplaced at-rule", zap.String("name", n.Name), zap.Int("line", n.Line))
			w.remove(id)
		}
	}
}
