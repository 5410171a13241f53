package rewrite

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/codegen"
	"github.com/dhamidi/jnicall/config"
)

type Options struct {
	Config   *config.Config
	Registry *config.PackageRegistry
}

// Expansion is one marker together with its rendered replacement.
type Expansion struct {
	Marker Marker
	Plan   *codegen.Plan
	Code   string
}

type Result struct {
	// Source is the generated file, nil when there are diagnostics.
	Source      []byte
	Expansions  []Expansion
	Diagnostics []Diagnostic
}

// Configure applies the file's package directives to reg.
func Configure(f *File, reg *config.PackageRegistry) []Diagnostic {
	var diags []Diagnostic
	for _, d := range f.Packages {
		if err := reg.Set(d.Arg); err != nil {
			diags = append(diags, Diagnostic{Span: d.Span, Kind: KindDirective, Message: err.Error()})
		}
	}
	return diags
}

type edit struct {
	start, end int
	text       string
}

// Expand renders every marker and export of f. All problems are collected
// so a single run reports each of them.
func Expand(f *File, opts Options) *Result {
	cfg := opts.Config
	res := &Result{Diagnostics: append([]Diagnostic(nil), f.Diagnostics...)}
	var edits []edit

	for _, m := range f.Markers {
		code, plan, err := codegen.Expand(m.Expr, cfg.Options(m.Env), callexpr.WithStart(m.ExprStart))
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, diagnosticFromError(err))
			continue
		}
		arity := codegen.ShapeOf(&plan.Call.Return).Arity()
		if m.Assigned > 0 && m.Assigned != arity {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Span:    m.Span,
				Kind:    KindArity,
				Message: fmt.Sprintf("assignment mismatch: %d variables but %s returns %d values", m.Assigned, plan.Call.Method, arity),
			})
			continue
		}
		res.Expansions = append(res.Expansions, Expansion{Marker: m, Plan: plan, Code: code})
		edits = append(edits, edit{m.Start, m.End, code})
	}

	if len(f.Exports) > 0 {
		pkg, err := opts.Registry.Get()
		for _, d := range f.Exports {
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{Span: d.Span, Kind: KindDirective, Message: err.Error()})
				continue
			}
			edits = append(edits, edit{d.Start, d.End, "//export " + ExportName(pkg, d.Arg, d.Func)})
		}
	}

	if len(res.Diagnostics) > 0 {
		for _, d := range res.Diagnostics {
			log.Warningf("%s", d.Error())
		}
		return res
	}

	for _, c := range f.constraints {
		edits = append(edits, edit{c.Start, c.End, ""})
	}
	src, err := finish(f, cfg, splice(f.Src, edits), len(res.Expansions) > 0)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: KindGo, Message: err.Error()})
		return res
	}
	res.Source = src
	return res
}

func splice(src []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var buf bytes.Buffer
	last := 0
	for _, e := range edits {
		buf.Write(src[last:e.start])
		buf.WriteString(e.text)
		last = e.end
	}
	buf.Write(src[last:])
	return buf.Bytes()
}

// finish prepends the generated header, fixes the imports and formats.
func finish(f *File, cfg *config.Config, body []byte, expanded bool) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by jnicall from %s. DO NOT EDIT.\n\n", filepath.Base(f.Name))
	fmt.Fprintf(&buf, "//go:build !%s\n\n", cfg.BuildTag)
	buf.Write(bytes.TrimLeft(body, "\n"))

	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, f.Name, buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w", err)
	}

	if f.markerPath != "" && !astutil.UsesImport(af, f.markerPath) {
		name := f.markerName
		if name == path.Base(f.markerPath) {
			name = ""
		}
		astutil.DeleteNamedImport(fset, af, name, f.markerPath)
	}
	if expanded {
		name := cfg.BridgeName
		if name == path.Base(cfg.Bridge) {
			name = ""
		}
		for _, imp := range []struct{ name, path string }{{name, cfg.Bridge}, {"", "fmt"}} {
			if astutil.AddNamedImport(fset, af, imp.name, imp.path) && !astutil.UsesImport(af, imp.path) {
				astutil.DeleteNamedImport(fset, af, imp.name, imp.path)
			}
		}
	}

	var out bytes.Buffer
	if err := format.Node(&out, fset, af); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Target is the generated file written for a marked source file.
func Target(name, suffix string) string {
	if base, ok := strings.CutSuffix(name, "_test.go"); ok {
		return base + strings.TrimSuffix(suffix, ".go") + "_test.go"
	}
	return strings.TrimSuffix(name, ".go") + suffix
}

// Diagnose scans and expands a single file in isolation, with its own
// package registry, and reports every problem found.
func Diagnose(filename string, src []byte, cfg *config.Config) ([]Diagnostic, *File, error) {
	f, err := Scan(filename, src, cfg)
	if err != nil {
		return nil, nil, err
	}
	reg := &config.PackageRegistry{}
	if cfg.Package != "" {
		_ = reg.Set(cfg.Package)
	}
	diags := Configure(f, reg)
	res := Expand(f, Options{Config: cfg, Registry: reg})
	return append(diags, res.Diagnostics...), f, nil
}
