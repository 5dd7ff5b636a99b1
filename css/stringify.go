package css

import (
	"io"
	"strings"
)

// WriteTo writes the stylesheet to w using node raws, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	s.write(&sb, s.Root(), false)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.write(&sb, s.Root(), false)
	return sb.String()
}

func (s *Stylesheet) write(sb *strings.Builder, id NodeID, semicolon bool) {
	n := &s.nodes[id]
	switch n.Kind {
	case KindRoot:
		s.body(sb, id)
		sb.WriteString(n.Raws.After)
	case KindComment:
		sb.WriteString(n.Raws.Before)
		sb.WriteString("/*")
		sb.WriteString(n.Raws.Left)
		sb.WriteString(n.Text)
		sb.WriteString(n.Raws.Right)
		sb.WriteString("*/")
	case KindDecl:
		writeDecl(sb, n)
		if semicolon {
			sb.WriteByte(';')
		}
	case KindRule:
		sb.WriteString(n.Raws.Before)
		sb.WriteString(n.Selector)
		s.block(sb, id)
	case KindAtRule:
		sb.WriteString(n.Raws.Before)
		sb.WriteByte('@')
		sb.WriteString(n.Name)
		sb.WriteString(n.Raws.AfterName)
		sb.WriteString(n.Params)
		if n.HasBlock {
			s.block(sb, id)
			return
		}
		sb.WriteString(n.Raws.Between)
		if semicolon {
			sb.WriteByte(';')
		}
	}
}

func writeDecl(sb *strings.Builder, n *Node) {
	sb.WriteString(n.Raws.Before)
	sb.WriteString(n.Prop)
	sb.WriteString(n.Raws.Between)
	sb.WriteString(n.Value)
	if n.Important {
		if n.Raws.Important != "" {
			sb.WriteString(n.Raws.Important)
		} else {
			sb.WriteString(" !important")
		}
	}
}

func (s *Stylesheet) block(sb *strings.Builder, id NodeID) {
	n := &s.nodes[id]
	sb.WriteString(n.Raws.Between)
	sb.WriteByte('{')
	s.body(sb, id)
	sb.WriteString(n.Raws.After)
	sb.WriteByte('}')
}

// body writes children of a container. Every child except the last one is
// terminated with ';' (comments ignore it), the last one only when the
// container remembers its own trailing semicolon.
func (s *Stylesheet) body(sb *strings.Builder, id NodeID) {
	n := &s.nodes[id]
	last := len(n.Children) - 1
	for i, c := range n.Children {
		s.write(sb, c, i != last || n.Raws.Semicolon)
	}
}
