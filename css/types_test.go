package css_test

import (
	"strings"
	"testing"

	"cssw/css"
)

func TestStylesheet_Remove(t *testing.T) {
	sheet := mustParse(t, "a{b:c;d:e}f{g:h}")

	var rules []css.NodeID
	sheet.Walk(css.KindRule, func(id css.NodeID) { rules = append(rules, id) })
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	first := sheet.Children(rules[0])
	sheet.Remove(first[0])
	if !sheet.Node(first[0]).Removed() {
		t.Error("expected node to be marked removed")
	}
	if sheet.Attached(first[0]) {
		t.Error("removed node must not be attached")
	}
	if got := sheet.String(); got != "a{d:e}f{g:h}" {
		t.Errorf("String() = %q, want %q", got, "a{d:e}f{g:h}")
	}

	sheet.Remove(rules[1])
	if sheet.Attached(sheet.Children(rules[1])[0]) {
		t.Error("descendants of removed node must not be attached")
	}
	if got := sheet.Count(css.KindDecl); got != 1 {
		t.Errorf("Count(KindDecl) = %d, want 1", got)
	}
	if got := sheet.String(); got != "a{d:e}" {
		t.Errorf("String() = %q, want %q", got, "a{d:e}")
	}
}

func TestStylesheet_WalkRemovingSiblings(t *testing.T) {
	sheet := mustParse(t, "a{b:1;b:2;b:3}")

	var visited []string
	sheet.Walk(css.KindDecl, func(id css.NodeID) {
		n := sheet.Node(id)
		visited = append(visited, n.Value)
		// drop every later sibling on first visit
		for _, c := range sheet.Children(n.Parent) {
			if c != id {
				sheet.Remove(c)
			}
		}
	})
	if strings.Join(visited, ",") != "1" {
		t.Errorf("visited = %v, want [1]", visited)
	}
}

func TestStylesheet_WalkPost(t *testing.T) {
	sheet := mustParse(t, "@media a{@media b{x{y:z}}}")

	var order []string
	sheet.WalkPost(css.KindAtRule, func(id css.NodeID) {
		order = append(order, sheet.Node(id).Params)
	})
	if strings.Join(order, ",") != "b,a" {
		t.Errorf("WalkPost order = %v, want [b a]", order)
	}

	order = nil
	sheet.Walk(css.KindAtRule, func(id css.NodeID) {
		order = append(order, sheet.Node(id).Params)
	})
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("Walk order = %v, want [a b]", order)
	}
}

func TestStylesheet_IsLast(t *testing.T) {
	sheet := mustParse(t, "a{}b{}")
	root := sheet.Children(sheet.Root())
	if sheet.IsLast(root[0]) || !sheet.IsLast(root[1]) {
		t.Error("IsLast reported wrong node")
	}
	if sheet.IsLast(sheet.Root()) {
		t.Error("root is never last")
	}
}

func TestNewDecl(t *testing.T) {
	d := css.NewDecl("display", "grid")
	if got := d.String(); got != "display:grid" {
		t.Errorf("String() = %q, want %q", got, "display:grid")
	}
	d.Important = true
	if got := d.String(); got != "display:grid !important" {
		t.Errorf("String() = %q, want %q", got, "display:grid !important")
	}
}

func TestDump(t *testing.T) {
	sheet := mustParse(t, "/*x*/@media print{a{color:red!important}}")
	dump := sheet.Dump()

	for _, want := range []string{
		"root (2 children)",
		"comment line 1",
		`text: "x"`,
		"@media line 1",
		`params: "print"`,
		"rule line 1",
		`selector: "a"`,
		"decl color line 1",
		`value: "red"`,
		"important",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("Dump() does not contain %q:\n%s", want, dump)
		}
	}
}

func TestKind_String(t *testing.T) {
	if got := css.KindAtRule.String(); got != "atrule" {
		t.Errorf("String() = %q, want %q", got, "atrule")
	}
	if got := css.Kind(42).String(); got != "kind(42)" {
		t.Errorf("String() = %q, want %q", got, "kind(42)")
	}
}
