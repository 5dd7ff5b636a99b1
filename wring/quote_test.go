package wring

import "testing"

func TestSplitQuote(t *testing.T) {
	tests := []struct {
		input     string
		wantQuote string
		wantBody  string
	}{
		{`"a"`, `"`, "a"},
		{`'a b'`, `'`, "a b"},
		{"abc", `"`, "abc"},
		{`"a`, `"`, `"a`},
		{`"a"b`, `"`, "ab"},
		{"", `"`, ""},
	}

	for _, tt := range tests {
		quote, body := splitQuote(tt.input)
		if quote != tt.wantQuote || body != tt.wantBody {
			t.Errorf("splitQuote(%q) = %q, %q, want %q, %q", tt.input, quote, body, tt.wantQuote, tt.wantBody)
		}
	}
}

func TestCanUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Arial", true},
		{"sans-serif", true},
		{"-moz-field", true},
		{"a_b", true},
		{"1a", false},
		{"-1a", false},
		{"--x", false},
		{"-", false},
		{"a.b", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := canUnquote(tt.input); got != tt.want {
			t.Errorf("canUnquote(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestUnquoteFontFamily(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"Arial"`, "Arial"},
		{`"Times New Roman"`, "Times New Roman"},
		{`"Font 1"`, `"Font 1"`},
		{`'Foo.Bar'`, `'Foo.Bar'`},
		{"var(--font)", "var(--font)"},
		{"sans-serif", "sans-serif"},
		{"Font 1", `"Font 1"`},
	}

	for _, tt := range tests {
		if got := unquoteFontFamily(tt.input); got != tt.want {
			t.Errorf("unquoteFontFamily(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
