package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"cssw/config"
	"cssw/state"
)

func newEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t)
	return ctx, env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func TestRunner_Stdio(t *testing.T) {
	ctx, env := newEnv(t)

	var out bytes.Buffer
	r := &runner{env: env, log: env.Log, stdin: strings.NewReader("a { color : #FF0000 ; }"), stdout: &out}
	if err := r.run(ctx, []job{{src: stdio}}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := out.String(); got != "a{color:#f00}" {
		t.Errorf("output = %q, want %q", got, "a{color:#f00}")
	}
}

func TestRunner_Files(t *testing.T) {
	ctx, env := newEnv(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.css")
	bad := filepath.Join(dir, "bad.css")
	writeFile(t, good, ".a { margin: 0px 0px 0px 0px }")
	writeFile(t, bad, ".a{b:c}}")

	jobs := []job{
		{src: good, dst: withSuffix(good, ".min.css")},
		{src: bad, dst: withSuffix(bad, ".min.css")},
	}
	r := &runner{env: env, log: env.Log}

	err := r.run(ctx, jobs)
	if err == nil {
		t.Fatal("run() expected error for bad input")
	}
	if !strings.Contains(err.Error(), bad+":1:") {
		t.Errorf("error %q does not point to %s", err, bad)
	}
	if got := readFile(t, jobs[0].dst); got != ".a{margin:0}" {
		t.Errorf("good output = %q, want %q", got, ".a{margin:0}")
	}
	if _, err := os.Stat(jobs[1].dst); !os.IsNotExist(err) {
		t.Error("no output expected for bad input")
	}

	// second run must not replace results
	err = r.run(ctx, jobs[:1])
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("run() error = %v, want existing output error", err)
	}

	env.Overwrite = true
	writeFile(t, good, ".b{color:white}")
	if err := r.run(ctx, jobs[:1]); err != nil {
		t.Fatalf("run() with overwrite error = %v", err)
	}
	if got := readFile(t, jobs[0].dst); got != ".b{color:#fff}" {
		t.Errorf("overwritten output = %q, want %q", got, ".b{color:#fff}")
	}
}

func TestRunner_BinaryInput(t *testing.T) {
	ctx, env := newEnv(t)
	src := filepath.Join(t.TempDir(), "font.css")
	// woff2 signature
	writeFile(t, src, "wOF2\x00\x01\x00\x00")

	r := &runner{env: env, log: env.Log}
	err := r.run(ctx, []job{{src: src, dst: withSuffix(src, ".min.css")}})
	if err == nil || !strings.Contains(err.Error(), "not a stylesheet") {
		t.Errorf("run() error = %v, want binary input error", err)
	}
}

func TestRunner_Canceled(t *testing.T) {
	ctx, env := newEnv(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.css")
	writeFile(t, src, "a{b:c}")

	r := &runner{env: env, log: env.Log}
	if err := r.run(ctx, []job{{src: src, dst: withSuffix(src, ".min.css")}}); err == nil {
		t.Error("run() expected error for canceled context")
	}
	if _, err := os.Stat(withSuffix(src, ".min.css")); !os.IsNotExist(err) {
		t.Error("no output expected after cancellation")
	}
}

func TestRunner_Report(t *testing.T) {
	ctx, env := newEnv(t)
	dir := t.TempDir()

	rptName := filepath.Join(dir, "report.zip")
	rpt, err := (&config.ReporterConfig{Destination: rptName}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	src := filepath.Join(dir, "a.css")
	dst := filepath.Join(dir, "a.min.css")
	writeFile(t, src, "a { color : red }")

	r := &runner{env: env, log: env.Log}
	if err := r.run(ctx, []job{{src: src, dst: dst}}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(rptName)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"MANIFEST",
		"inputs/000-a.css/original.css",
		"inputs/000-a.css/tree-before.txt",
		"inputs/000-a.css/tree-after.txt",
		"inputs/000-a.css/result.css",
		"inputs/000-a.css/output-a.min.css",
	} {
		if !names[want] {
			t.Errorf("report does not contain %q, have %v", want, names)
		}
	}
}

func TestRunner_Bundle(t *testing.T) {
	ctx, env := newEnv(t)
	dir := t.TempDir()

	bundle := filepath.Join(dir, "theme.zip")
	makeBundle(t, bundle, map[string]string{
		"css/site.css": "a { color : #FF0000 ; }",
		"css/old.css":  "@charset \"windows-1251\";\n.b { content: \"\xcf\xf0\xe8\" }",
	})

	jobs, err := plan([]string{bundle}, false, ".min.css")
	if err != nil {
		t.Fatalf("plan() error = %v", err)
	}

	r := &runner{env: env, log: env.Log}
	if err := r.run(ctx, jobs); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "theme", "css", "site.min.css")); got != "a{color:#f00}" {
		t.Errorf("site output = %q, want %q", got, "a{color:#f00}")
	}
	want := "@charset \"windows-1251\";.b{content:\"\xcf\xf0\xe8\"}"
	if got := readFile(t, filepath.Join(dir, "theme", "css", "old.min.css")); got != want {
		t.Errorf("old output = %q, want %q", got, want)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{Name: "wring", Flags: Flags(), Action: Run}
}

func TestRun_Flags(t *testing.T) {
	ctx, env := newEnv(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "hacks.css")
	dst := filepath.Join(dir, "out", "hacks.css")
	writeFile(t, src, "/*! keep */.a{*zoom:1;color:red}")

	args := []string{"wring", "--preserve-hacks", "--remove-all-comments", "--jobs", "2", src, dst}
	if err := newCommand().Run(ctx, args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := readFile(t, dst); got != ".a{*zoom:1;color:red}" {
		t.Errorf("output = %q, want %q", got, ".a{*zoom:1;color:red}")
	}
	if !env.Options.PreserveHacks || !env.Options.RemoveAllComments || env.Parallel != 2 {
		t.Errorf("flags were not applied: %+v parallel %d", env.Options, env.Parallel)
	}
}

func TestRun_Suffix(t *testing.T) {
	ctx, _ := newEnv(t)
	dir := t.TempDir()

	a := filepath.Join(dir, "a.css")
	b := filepath.Join(dir, "b.css")
	writeFile(t, a, "a{color:#ffffff}")
	writeFile(t, b, "b{width:0px}")

	if err := newCommand().Run(ctx, []string{"wring", "--suffix", ".w.css", a, b}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "a.w.css")); got != "a{color:#fff}" {
		t.Errorf("a output = %q, want %q", got, "a{color:#fff}")
	}
	if got := readFile(t, filepath.Join(dir, "b.w.css")); got != "b{width:0}" {
		t.Errorf("b output = %q, want %q", got, "b{width:0}")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"wring"}},
		{"unknown charset", []string{"wring", "--charset", "no-such-charset", "-"}},
		{"missing input", []string{"wring", filepath.Join(t.TempDir(), "none.css")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newEnv(t)
			if err := newCommand().Run(ctx, tt.args); err == nil {
				t.Error("Run() expected error")
			}
		})
	}
}
