package css

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter renders indented debug listings.
type treeWriter struct {
	w *strings.Builder
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw treeWriter) text(depth int, label, value string) {
	if value == "" {
		return
	}
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(strconv.Quote(value))
	tw.w.WriteByte('\n')
}

// Dump returns indented listing of attached nodes with their fields and raws.
// Used for debug reports.
func (s *Stylesheet) Dump() string {
	tw := treeWriter{w: &strings.Builder{}}
	s.dump(tw, s.Root(), 0)
	return tw.w.String()
}

func (s *Stylesheet) dump(tw treeWriter, id NodeID, depth int) {
	n := &s.nodes[id]
	switch n.Kind {
	case KindRoot:
		tw.line(depth, "root (%d children)", len(n.Children))
	case KindAtRule:
		tw.line(depth, "@%s line %d", n.Name, n.Line)
		tw.text(depth+1, "params", n.Params)
	case KindRule:
		tw.line(depth, "rule line %d", n.Line)
		tw.text(depth+1, "selector", n.Selector)
	case KindDecl:
		tw.line(depth, "decl %s line %d", n.Prop, n.Line)
		tw.text(depth+1, "value", n.Value)
		if n.Important {
			tw.line(depth+1, "important")
		}
	case KindComment:
		tw.line(depth, "comment line %d", n.Line)
		tw.text(depth+1, "text", n.Text)
	}
	tw.text(depth+1, "before", n.Raws.Before)
	tw.text(depth+1, "afterName", n.Raws.AfterName)
	tw.text(depth+1, "between", n.Raws.Between)
	tw.text(depth+1, "after", n.Raws.After)
	for _, c := range n.Children {
		s.dump(tw, c, depth+1)
	}
}
