package css

import (
	"fmt"
	"strings"
)

// NodeID addresses a node inside its Stylesheet arena.
type NodeID int

// NoNode is the parent of the root and the result of failed lookups.
const NoNode NodeID = -1

// Kind determines what a node represents.
type Kind int

const (
	KindRoot    Kind = iota // stylesheet itself
	KindAtRule              // @name params; or @name params { ... }
	KindRule                // selector { ... }
	KindDecl                // property: value
	KindComment             // /* text */
)

// String returns a short name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindAtRule:
		return "atrule"
	case KindRule:
		return "rule"
	case KindDecl:
		return "decl"
	case KindComment:
		return "comment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Raws keeps original formatting around node fields. Stringification uses
// raws verbatim, so resetting a slot to "" removes the whitespace it held.
type Raws struct {
	Before    string // text before the node (whitespace, hack signs)
	AfterName string // at-rule: between name and params
	Between   string // decl: between property and value; rule/at-rule: before '{' or ';'
	After     string // block: text before closing '}'
	Semicolon bool   // block: last child is followed by ';'
	Important string // decl: spelling of the importance marker
	Left      string // comment: padding after '/*'
	Right     string // comment: padding before '*/'
}

// Node is a single element of the stylesheet tree. Which fields are
// meaningful depends on Kind.
type Node struct {
	Kind     Kind
	Parent   NodeID
	Children []NodeID

	Name     string // at-rule name without '@'
	Params   string // at-rule prelude
	HasBlock bool   // at-rule has a {...} body

	Selector string // rule selector list, comma joined

	Prop      string // declaration property
	Value     string // declaration value without importance
	Important bool

	Text string // comment text without delimiters and padding

	Raws Raws
	Line int // 1-based line of the first token

	removed bool
}

// Selectors returns rule selectors split on top level commas.
func (n *Node) Selectors() []string {
	return SplitComma(n.Selector)
}

// Removed reports whether the node was detached from the tree.
func (n *Node) Removed() bool {
	return n.removed
}

// NewDecl creates a detached declaration. It is not part of any stylesheet
// and can be stringified on its own.
func NewDecl(prop, value string) *Node {
	return &Node{Kind: KindDecl, Parent: NoNode, Prop: prop, Value: value, Raws: Raws{Between: ":"}}
}

// String stringifies a detached declaration.
func (n *Node) String() string {
	var sb strings.Builder
	writeDecl(&sb, n)
	return sb.String()
}

// Stylesheet is an arena of nodes. Index 0 is always the root.
type Stylesheet struct {
	nodes []Node
}

// NewStylesheet returns an empty stylesheet containing only the root.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{nodes: []Node{{Kind: KindRoot, Parent: NoNode}}}
}

// Root returns the root node id.
func (s *Stylesheet) Root() NodeID {
	return 0
}

// Len returns number of nodes ever allocated, including removed ones.
func (s *Stylesheet) Len() int {
	return len(s.nodes)
}

// Node returns a pointer to the node. Pointers are invalidated by Append.
func (s *Stylesheet) Node(id NodeID) *Node {
	return &s.nodes[id]
}

// Children returns a copy of the child list, safe to iterate while removing.
func (s *Stylesheet) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), s.nodes[id].Children...)
}

// Parent returns parent of the node or NoNode for the root.
func (s *Stylesheet) Parent(id NodeID) NodeID {
	return s.nodes[id].Parent
}

// Append allocates a new node as the last child of parent.
func (s *Stylesheet) Append(parent NodeID, n Node) NodeID {
	id := NodeID(len(s.nodes))
	n.Parent = parent
	n.Children = nil
	s.nodes = append(s.nodes, n)
	s.nodes[parent].Children = append(s.nodes[parent].Children, id)
	return id
}

// Remove detaches the node from its parent. Descendants stay attached to the
// removed node and are never reached from the root again.
func (s *Stylesheet) Remove(id NodeID) {
	n := &s.nodes[id]
	if n.removed || n.Parent == NoNode {
		return
	}
	n.removed = true
	p := &s.nodes[n.Parent]
	for i, c := range p.Children {
		if c == id {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
}

// Attached reports whether the node is still reachable from the root.
func (s *Stylesheet) Attached(id NodeID) bool {
	for ; id != NoNode; id = s.nodes[id].Parent {
		if s.nodes[id].removed {
			return false
		}
	}
	return true
}

// IsLast reports whether the node is the last child of its parent.
func (s *Stylesheet) IsLast(id NodeID) bool {
	p := s.nodes[id].Parent
	if p == NoNode {
		return false
	}
	ch := s.nodes[p].Children
	return len(ch) > 0 && ch[len(ch)-1] == id
}

// Walk calls fn for every attached node of the given kind in document order
// (parents before children). Children lists are snapshotted before the
// callback runs, so fn may remove the visited node or its siblings.
func (s *Stylesheet) Walk(kind Kind, fn func(id NodeID)) {
	s.walk(s.Root(), kind, fn, false)
}

// WalkPost is Walk with children visited before their parent.
func (s *Stylesheet) WalkPost(kind Kind, fn func(id NodeID)) {
	s.walk(s.Root(), kind, fn, true)
}

func (s *Stylesheet) walk(id NodeID, kind Kind, fn func(id NodeID), post bool) {
	for _, c := range s.Children(id) {
		if s.nodes[c].removed {
			continue
		}
		if !post && s.nodes[c].Kind == kind {
			fn(c)
			if s.nodes[c].removed {
				continue
			}
		}
		s.walk(c, kind, fn, post)
		if post && !s.nodes[c].removed && s.nodes[c].Kind == kind {
			fn(c)
		}
	}
}

// Count returns number of attached nodes of the given kind.
func (s *Stylesheet) Count(kind Kind) int {
	var n int
	s.Walk(kind, func(NodeID) { n++ })
	return n
}
