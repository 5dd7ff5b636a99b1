package wring

import "testing"

type stepCase struct {
	prop  string
	input string
	want  string
}

func runStep(t *testing.T, name string, step valueStep, opts Options, tests []stepCase) {
	t.Helper()
	for _, tt := range tests {
		if got := step(tt.prop, tt.input, opts); got != tt.want {
			t.Errorf("%s(%q, %q) = %q, want %q", name, tt.prop, tt.input, got, tt.want)
		}
	}
}

func TestFoldColorFunctions(t *testing.T) {
	runStep(t, "foldColorFunctions", foldColorFunctions, Options{}, []stepCase{
		{"color", "rgb(255, 0, 0)", "#ff0000 "},
		{"color", "RGB(100%, 100%, 100%)", "#ffffff "},
		{"color", "rgba(0, 0, 0, 0.5)", "rgba(0,0,0,0.5)"},
		{"color", "rgba(0, 0, 0, 1)", "#000000 "},
		{"color", "rgb(0 0 0 / 50%)", "rgba(0,0,0,0.5)"},
		{"color", "hsl(120, 100%, 50%)", "#00ff00 "},
		{"color", "hsla(0, 100%, 50%, .5)", "rgba(255,0,0,0.5)"},
		{"color", "rgb(a, b, c)", "rgb(a, b, c)"},
		{"color", "hsl(0, 1, 2)", "hsl(0, 1, 2)"},
		{"background", "linear-gradient(rgb(0,0,0), red)", "linear-gradient(#000000 , red)"},
		{"color", "foorgb(1,2,3)", "foorgb(1,2,3)"},
	})
}

func TestShortenHexColors(t *testing.T) {
	runStep(t, "shortenHexColors", shortenHexColors, Options{}, []stepCase{
		{"color", "#FFFFFF", "#fff"},
		{"color", "#aabbcc", "#abc"},
		{"color", "#000080", "navy"},
		{"color", "#ff0000", "#f00"},
		{"color", "#123456", "#123456"},
		{"color", "#ffffff80", "#ffffff80"},
		{"color", "#fff", "#fff"},
		{"border", "1px solid #AABBCC", "1px solid #abc"},
		{"background", "url(#aabbcc)", "url(#abc)"},
		{"color", "a#aabbcc", "a#aabbcc"},
	})
}

func TestFoldTransparent(t *testing.T) {
	runStep(t, "foldTransparent", foldTransparent, Options{}, []stepCase{
		{"color", "rgba(0,0,0,0)", "transparent "},
		{"background", "red,rgba(0,0,0,0)", "red,transparent "},
		{"color", "rgba(0,0,0,.5)", "rgba(0,0,0,.5)"},
	})
}

func TestCollapseWhitespace(t *testing.T) {
	runStep(t, "collapseWhitespace", collapseWhitespace, Options{}, []stepCase{
		{"margin", "  1px \n\t 2px  ", "1px 2px"},
		{"color", "rgba( 0 , 0 )", "rgba(0,0)"},
		{"color", "#fff ", "#fff"},
		{"background", "url( a.png )  no-repeat", "url(a.png) no-repeat"},
	})
}

func TestStripLeadingZeros(t *testing.T) {
	runStep(t, "stripLeadingZeros", stripLeadingZeros, Options{}, []stepCase{
		{"width", "010px", "10px"},
		{"margin", "1px 007em", "1px 7em"},
		{"opacity", "00.5", "00.5"},
		{"width", "0", "0"},
		{"line-height", "01.25", "1.25"},
	})
}

func TestStripZeroUnits(t *testing.T) {
	runStep(t, "stripZeroUnits", stripZeroUnits, Options{}, []stepCase{
		{"width", "0px", "0"},
		{"margin", "0px 0em", "0 0"},
		{"width", "0%", "0"},
		{"min-width", "0%", "0"},
		{"transition", "0ms", "0s"},
		{"transform", "rotate(0grad)", "rotate(0deg)"},
		{"transform", "rotate(0TURN)", "rotate(0deg)"},
		{"pitch", "0kHz", "0Hz"},
		{"resolution", "0dppx", "0dpi"},
		{"flex", "1 1 0px", "1 1 0px"},
		{"flex-basis", "0px", "0px"},
		{"-webkit-flex-basis", "0%", "0%"},
		{"width", "calc(0px + 1em)", "calc(0px + 1em)"},
		{"--gap", "0px", "0px"},
		{"width", "10px", "10px"},
		{"width", "0.5px", "0.5px"},
	})
	runStep(t, "stripZeroUnits", stripZeroUnits, Options{PreserveHacks: true}, []stepCase{
		{"min-width", "0%", "0%"},
		{"min-width", "0px", "0"},
		{"width", "0%", "0"},
	})
}

func TestTrimDecimalZeros(t *testing.T) {
	runStep(t, "trimDecimalZeros", trimDecimalZeros, Options{}, []stepCase{
		{"opacity", "0.500", ".5"},
		{"margin", "-0.50em", "-.5em"},
		{"line-height", "1.50", "1.5"},
		{"line-height", "10.0", "10.0"},
		{"color", "rgba(0,0,0,0.25)", "rgba(0,0,0,.25)"},
	})
}

func TestShortenTimes(t *testing.T) {
	runStep(t, "shortenTimes", shortenTimes, Options{}, []stepCase{
		{"transition", "3210ms", "3.21s"},
		{"transition", "100ms", ".1s"},
		{"transition", "1000ms", "1s"},
		{"transition", "opacity 2500ms ease", "opacity 2.5s ease"},
		{"transition", "10ms", "10ms"},
		{"transition", "3215ms", "3215ms"},
	})
}

func TestShortenAngles(t *testing.T) {
	runStep(t, "shortenAngles", shortenAngles, Options{}, []stepCase{
		{"transform", "400grad", "360deg"},
		{"transform", "rotate(100grad)", "rotate(90deg)"},
		{"transform", "rotate(50GRAD)", "rotate(45deg)"},
		{"transform", "15grad", "15grad"},
	})
}

func TestShortenFrequencies(t *testing.T) {
	runStep(t, "shortenFrequencies", shortenFrequencies, Options{}, []stepCase{
		{"pitch", "1000Hz", "1kHz"},
		{"pitch", "15000hz", "15kHz"},
		{"pitch", "1500Hz", "1500Hz"},
	})
}

func TestUnquoteURLs(t *testing.T) {
	runStep(t, "unquoteURLs", unquoteURLs, Options{}, []stepCase{
		{"background", `url("a.png")`, `url(a.png)`},
		{"background", `url('a b.png')`, `url('a b.png')`},
		{"background", `url(a\(1\).png)`, `url("a(1).png")`},
		{"background", `url("a.png") no-repeat`, `url(a.png) no-repeat`},
		{"background", `url(a.png),url('b.png')`, `url(a.png),url(b.png)`},
		{"background", `myurl("a.png")`, `myurl("a.png")`},
	})
}

func TestCompactCalc(t *testing.T) {
	runStep(t, "compactCalc", compactCalc, Options{}, []stepCase{
		{"width", "calc(100% - 2 * 10px)", "calc(100% - 2*10px)"},
		{"width", "calc(1px / 2)", "calc(1px/2)"},
		{"width", "calc((1px + 2px) * 3)", "calc((1px + 2px)*3)"},
		{"width", "10px", "10px"},
	})
}

func TestCanonicalizeValue(t *testing.T) {
	tests := []struct {
		prop  string
		input string
		want  string
	}{
		{"color", "RGB(255,255,255)", "#fff"},
		{"color", "#ffffff", "#fff"},
		{"color", "rgba(0, 0, 0, 0)", "transparent"},
		{"color", "hsla(0, 0%, 0%, 0.5)", "rgba(0,0,0,.5)"},
		{"margin", "0.500em  010px", ".5em 10px"},
		{"width", "0px", "0"},
		{"flex-basis", "0px", "0px"},
		{"transition", "opacity 3210ms", "opacity 3.21s"},
		{"transform", "rotate( 400grad )", "rotate(360deg)"},
		{"background", "url('a.png') rgba(0, 0, 0, 0)", "url(a.png) transparent"},
		{"width", "calc( 100% - 2 * 10px )", "calc(100% - 2*10px)"},
		{"color", "#000080", "navy"},
	}

	for _, tt := range tests {
		if got := CanonicalizeValue(tt.prop, tt.input, Options{}); got != tt.want {
			t.Errorf("CanonicalizeValue(%q, %q) = %q, want %q", tt.prop, tt.input, got, tt.want)
		}
	}
}

func TestCanonicalizeValue_Idempotent(t *testing.T) {
	inputs := []string{
		"rgba(10, 20, 30, 0.25)",
		"url('a b.png') no-repeat",
		"0.500em 010px 0ms",
		"calc(100% - 2 * 10px)",
		"hsl(210, 50%, 40%)",
		"1000Hz 400grad",
	}
	for _, in := range inputs {
		once := CanonicalizeValue("x", in, Options{})
		if twice := CanonicalizeValue("x", once, Options{}); twice != once {
			t.Errorf("CanonicalizeValue not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestValueStepsOrder(t *testing.T) {
	want := []string{
		"foldColorFunctions", "shortenHexColors", "foldTransparent", "collapseWhitespace",
		"stripLeadingZeros", "stripZeroUnits", "trimDecimalZeros", "shortenTimes",
		"shortenAngles", "shortenFrequencies", "unquoteURLs", "compactCalc",
	}
	if len(valueSteps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(valueSteps))
	}
	for i, s := range valueSteps {
		if s.name != want[i] {
			t.Errorf("valueSteps[%d] = %q, want %q", i, s.name, want[i])
		}
	}
}
