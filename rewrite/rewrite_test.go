package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/jnicall/config"
)

const widgetSrc = `//go:build jnicall

package widgets

import (
	"github.com/dhamidi/jnicall"
	"github.com/dhamidi/jnicall/jni"
)

//jnicall:package me.author

// draw is called from Java.
//
//jnicall:export Widget
func draw(env jni.Env, obj jni.Object) int32 {
	n, err := jnicall.Call(env, ` + "`obj.size() -> Result<int, String>`" + `)
	if err != nil {
		return -1
	}
	jnicall.Call(env, "static me.author.Log::flush() -> void")
	return n
}
`

func expandSource(t *testing.T, src string) (*File, *Result) {
	t.Helper()
	cfg := config.Default()
	f, err := Scan("widgets.go", []byte(src), cfg)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	reg := &config.PackageRegistry{}
	if diags := Configure(f, reg); len(diags) > 0 {
		t.Fatalf("Configure diagnostics: %v", Diagnostics(diags))
	}
	return f, Expand(f, Options{Config: cfg, Registry: reg})
}

func TestScan(t *testing.T) {
	f, err := Scan("widgets.go", []byte(widgetSrc), config.Default())
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if !f.Tagged {
		t.Error("Tagged = false, want true")
	}
	if len(f.Markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(f.Markers))
	}
	m := f.Markers[0]
	if m.Env != "env" {
		t.Errorf("Env = %q, want %q", m.Env, "env")
	}
	if m.Expr != "obj.size() -> Result<int, String>" {
		t.Errorf("Expr = %q", m.Expr)
	}
	if m.Assigned != 2 {
		t.Errorf("Assigned = %d, want 2", m.Assigned)
	}
	if m.ExprStart.Line != 16 || m.ExprStart.Column != 31 {
		t.Errorf("ExprStart = %s, want 16:31", m.ExprStart)
	}
	if got := string(f.Src[m.Start:m.End]); !strings.HasPrefix(got, "jnicall.Call(env,") || !strings.HasSuffix(got, "`)") {
		t.Errorf("marker text = %q", got)
	}
	if f.Markers[1].Assigned != 0 {
		t.Errorf("statement marker Assigned = %d, want 0", f.Markers[1].Assigned)
	}
	if len(f.Packages) != 1 || f.Packages[0].Arg != "me.author" {
		t.Errorf("Packages = %+v", f.Packages)
	}
	if len(f.Exports) != 1 || f.Exports[0].Arg != "Widget" || f.Exports[0].Func != "draw" {
		t.Errorf("Exports = %+v", f.Exports)
	}
}

func TestScanAssignedCount(t *testing.T) {
	src := `package p

import j "github.com/dhamidi/jnicall"

var top = j.Call(env, "obj.a() -> int")

func f() (int32, error) {
	a, b, c := j.Call(env, "obj.b() -> Result<Option<me.T>, String>")
	_, _, _ = a, b, c
	use(j.Call(env, "obj.c() -> int"))
	return j.Call(env, "obj.d() -> Result<int, String>")
}
`
	f, err := Scan("p.go", []byte(src), config.Default())
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	want := []int{1, 3, -1, -1}
	if len(f.Markers) != len(want) {
		t.Fatalf("got %d markers, want %d", len(f.Markers), len(want))
	}
	for i, m := range f.Markers {
		if m.Assigned != want[i] {
			t.Errorf("marker %d Assigned = %d, want %d", i, m.Assigned, want[i])
		}
	}
	if f.Tagged {
		t.Error("Tagged = true for a file without a build constraint")
	}
}

func TestScanTagged(t *testing.T) {
	tests := []struct {
		constraint string
		want       bool
	}{
		{"//go:build jnicall", true},
		{"//go:build jnicall && linux", true},
		{"//go:build !jnicall", false},
		{"//go:build linux", false},
		{"//go:build jnicall || linux", false},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			src := tt.constraint + "\n\npackage p\n"
			f, err := Scan("p.go", []byte(src), config.Default())
			if err != nil {
				t.Fatalf("Scan error: %v", err)
			}
			if f.Tagged != tt.want {
				t.Errorf("Tagged = %v, want %v", f.Tagged, tt.want)
			}
		})
	}
}

func TestScanMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind string
	}{
		{"expression not a literal", "jnicall.Call(env, expr)", KindMarker},
		{"missing expression", "jnicall.Call(env)", KindMarker},
		{"export not on a function", "//jnicall:export Widget\n\tx := 1\n\t_ = x", KindDirective},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package p\n\nimport \"github.com/dhamidi/jnicall\"\n\nfunc f() {\n\t" + tt.body + "\n}\n"
			f, err := Scan("p.go", []byte(src), config.Default())
			if err != nil {
				t.Fatalf("Scan error: %v", err)
			}
			if len(f.Diagnostics) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(f.Diagnostics), Diagnostics(f.Diagnostics))
			}
			if f.Diagnostics[0].Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", f.Diagnostics[0].Kind, tt.kind)
			}
			if len(f.Markers) != 0 {
				t.Errorf("got %d markers, want 0", len(f.Markers))
			}
		})
	}
}

func TestExpand(t *testing.T) {
	_, res := expandSource(t, widgetSrc)
	if len(res.Diagnostics) > 0 {
		t.Fatalf("diagnostics: %v", Diagnostics(res.Diagnostics))
	}
	if len(res.Expansions) != 2 {
		t.Errorf("got %d expansions, want 2", len(res.Expansions))
	}
	out := string(res.Source)
	want := []string{
		"// Code generated by jnicall from widgets.go. DO NOT EDIT.",
		"//go:build !jnicall",
		`"fmt"`,
		`"github.com/dhamidi/jnicall/jni"`,
		"//export Java_me_author_Widget_draw",
		"n, err := func() (int32, error) {",
		`jniEnv.CallMethod(obj, "size", "()I", nil)`,
		`jniEnv.CallStaticMethod("me/author/Log", "flush", "()V", nil)`,
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
	avoid := []string{
		"//go:build jnicall\n",
		`"github.com/dhamidi/jnicall"`,
		"jnicall.Call(",
		"//jnicall:export",
	}
	for _, a := range avoid {
		if strings.Contains(out, a) {
			t.Errorf("output contains %q:\n%s", a, out)
		}
	}
}

func TestExpandDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind string
		line int
	}{
		{
			name: "parse error",
			body: "x := jnicall.Call(env, `obj.m() -> Option<int>`)",
			kind: "OptionRequiresObjectType",
			line: 6,
		},
		{
			name: "arity",
			body: "x := jnicall.Call(env, `obj.m() -> Result<int, String>`)",
			kind: KindArity,
			line: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package p\n\nimport \"github.com/dhamidi/jnicall\"\n\nfunc f() {\n\t" + tt.body + "\n\t_ = x\n}\n"
			_, res := expandSource(t, src)
			if res.Source != nil {
				t.Errorf("Source = %q, want nil", res.Source)
			}
			if len(res.Diagnostics) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(res.Diagnostics), Diagnostics(res.Diagnostics))
			}
			d := res.Diagnostics[0]
			if d.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.kind)
			}
			if d.Span.Start.Line != tt.line {
				t.Errorf("line = %d, want %d", d.Span.Start.Line, tt.line)
			}
		})
	}
}

func TestExpandReportsEveryMarker(t *testing.T) {
	src := "package p\n\nimport \"github.com/dhamidi/jnicall\"\n\nfunc f() {\n" +
		"\tjnicall.Call(env, `obj.a() -> Option<void>`)\n" +
		"\tjnicall.Call(env, `obj.b() -> void`)\n" +
		"\tjnicall.Call(env, `obj.c() -> Result<Result<int, String>, String>`)\n" +
		"}\n"
	_, res := expandSource(t, src)
	if len(res.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(res.Diagnostics), Diagnostics(res.Diagnostics))
	}
	if res.Diagnostics[0].Span.Start.Line != 6 || res.Diagnostics[1].Span.Start.Line != 8 {
		t.Errorf("diagnostic lines = %d, %d, want 6, 8", res.Diagnostics[0].Span.Start.Line, res.Diagnostics[1].Span.Start.Line)
	}
}

func TestExpandExportWithoutPackage(t *testing.T) {
	src := "package p\n\n//jnicall:export Widget\nfunc draw() {}\n"
	_, res := expandSource(t, src)
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != KindDirective {
		t.Fatalf("diagnostics = %v, want one %s", Diagnostics(res.Diagnostics), KindDirective)
	}
	if !strings.Contains(res.Diagnostics[0].Message, config.ErrPackageNotConfigured.Error()) {
		t.Errorf("Message = %q", res.Diagnostics[0].Message)
	}
}

func TestExpandRejectsExportedMethod(t *testing.T) {
	src := "package p\n\n//jnicall:package me.app\n\ntype W struct{}\n\n//jnicall:export Widget\nfunc (W) draw() {}\n"
	_, res := expandSource(t, src)
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != KindDirective {
		t.Errorf("diagnostics = %v, want one %s", Diagnostics(res.Diagnostics), KindDirective)
	}
}

func TestConfigureConflictingPackages(t *testing.T) {
	reg := &config.PackageRegistry{}
	for i, pkg := range []string{"me.a", "me.b"} {
		src := "package p\n\n//jnicall:package " + pkg + "\n"
		f, err := Scan("p.go", []byte(src), config.Default())
		if err != nil {
			t.Fatal(err)
		}
		diags := Configure(f, reg)
		if want := i; len(diags) != want {
			t.Errorf("Configure(%s) gave %d diagnostics, want %d", pkg, len(diags), want)
		}
	}
}

func TestDiagnose(t *testing.T) {
	src := "package p\n\nimport \"github.com/dhamidi/jnicall\"\n\nfunc f() {\n\tjnicall.Call(env, `obj.m( -> void`)\n}\n"
	diags, f, err := Diagnose("p.go", []byte(src), config.Default())
	if err != nil {
		t.Fatalf("Diagnose error: %v", err)
	}
	if len(f.Markers) != 1 {
		t.Errorf("got %d markers, want 1", len(f.Markers))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Span.Start.File != "p.go" || diags[0].Span.Start.Line != 6 {
		t.Errorf("diagnostic at %s, want p.go:6", diags[0].Span.Start)
	}
}

func TestDiagnoseGoSyntaxError(t *testing.T) {
	if _, _, err := Diagnose("p.go", []byte("package p\n\nfunc {"), config.Default()); err == nil {
		t.Error("Diagnose succeeded on invalid Go, want error")
	}
}

func TestGenerator(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("widgets.go", widgetSrc)
	write("plain.go", "package widgets\n\nfunc helper() {}\n")

	g := &Generator{Config: config.Default(), Registry: &config.PackageRegistry{}}
	outs, err := g.Run([]string{dir})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outs) != 1 {
		t.Fatalf("got %d outputs, want 1", len(outs))
	}
	out := outs[0]
	if len(out.Diagnostics) > 0 {
		t.Fatalf("diagnostics: %v", Diagnostics(out.Diagnostics))
	}
	if out.Target != filepath.Join(dir, "widgets_gen.go") {
		t.Errorf("Target = %q", out.Target)
	}
	if !out.Stale {
		t.Error("Stale = false on first run")
	}
	data, err := os.ReadFile(out.Target)
	if err != nil {
		t.Fatalf("generated file not written: %v", err)
	}
	if string(data) != string(out.Data) {
		t.Error("written file differs from Output.Data")
	}

	g = &Generator{Config: config.Default(), Registry: &config.PackageRegistry{}, Check: true}
	outs, err = g.Run([]string{dir})
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if len(outs) != 1 || outs[0].Stale {
		t.Errorf("second run reported stale output")
	}
}

func TestGeneratorCheckDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "widgets.go"), []byte(widgetSrc), 0o644); err != nil {
		t.Fatal(err)
	}
	g := &Generator{Config: config.Default(), Check: true}
	outs, err := g.Run([]string{dir})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outs) != 1 || !outs[0].Stale {
		t.Fatalf("outputs = %+v, want one stale", outs)
	}
	if _, err := os.Stat(filepath.Join(dir, "widgets_gen.go")); !os.IsNotExist(err) {
		t.Errorf("check mode wrote a file (stat error %v)", err)
	}
}
