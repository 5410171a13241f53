// Package rewrite expands call-expression markers in Go source files and
// renames exported native functions, producing the generated twin of each
// marked file.
package rewrite

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/config"
)

var log = commonlog.GetLogger("jnicall.rewrite")

const (
	packageDirective = "//jnicall:package"
	exportDirective  = "//jnicall:export"
)

// Marker is one marker call found in a file.
type Marker struct {
	Start, End int // byte offsets of the whole call
	Env        string
	Expr       string
	ExprStart  callexpr.Position
	Span       callexpr.Span

	// Assigned is the number of values the call is assigned to, 0 for
	// a bare statement and -1 when it is used as an expression.
	Assigned int
}

// Directive is a //jnicall: comment.
type Directive struct {
	Start, End int
	Arg        string
	Func       string // exports only
	Span       callexpr.Span
}

// File is a scanned source file.
type File struct {
	Name string
	Src  []byte

	// Tagged reports whether the file is only built with the marker tag.
	Tagged      bool
	Markers     []Marker
	Packages    []Directive
	Exports     []Directive
	Diagnostics []Diagnostic

	constraints []Directive
	markerPath  string
	markerName  string
}

// Scan parses src and collects its markers and directives. Malformed
// markers and directives become diagnostics; only Go syntax errors are
// returned as errors.
func Scan(filename string, src []byte, cfg *config.Config) (*File, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	f := &File{Name: filename, Src: src}
	f.scanConstraints(fset, af, cfg.BuildTag)
	f.scanDirectives(fset, af)
	f.scanMarkers(fset, af, cfg.Marker)
	log.Debugf("%s: %d markers, %d exports, tagged=%t", filename, len(f.Markers), len(f.Exports), f.Tagged)
	return f, nil
}

func (f *File) scanConstraints(fset *token.FileSet, af *ast.File, tag string) {
	for _, cg := range af.Comments {
		if cg.Pos() >= af.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) && !constraint.IsPlusBuild(c.Text) {
				continue
			}
			f.constraints = append(f.constraints, Directive{
				Start: fset.Position(c.Pos()).Offset,
				End:   fset.Position(c.End()).Offset,
			})
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}
			// Tagged files mention the tag and are excluded without it,
			// whatever else is set.
			mentioned := false
			without := expr.Eval(func(t string) bool {
				if t == tag {
					mentioned = true
					return false
				}
				return true
			})
			f.Tagged = mentioned && !without
		}
	}
}

func (f *File) scanDirectives(fset *token.FileSet, af *ast.File) {
	attached := map[*ast.Comment]bool{}
	for _, decl := range af.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		for _, c := range fn.Doc.List {
			arg, ok := directiveArg(c.Text, exportDirective)
			if !ok {
				continue
			}
			attached[c] = true
			d := f.directive(fset, c, arg)
			switch {
			case fn.Recv != nil:
				f.diagnose(d.Span, KindDirective, "%s cannot be applied to method %s", exportDirective, fn.Name.Name)
			case arg == "":
				f.diagnose(d.Span, KindDirective, "%s needs a class name", exportDirective)
			default:
				d.Func = fn.Name.Name
				f.Exports = append(f.Exports, d)
			}
		}
	}

	for _, cg := range af.Comments {
		for _, c := range cg.List {
			if arg, ok := directiveArg(c.Text, packageDirective); ok {
				d := f.directive(fset, c, arg)
				if arg == "" {
					f.diagnose(d.Span, KindDirective, "%s needs a package name", packageDirective)
					continue
				}
				f.Packages = append(f.Packages, d)
				continue
			}
			if _, ok := directiveArg(c.Text, exportDirective); ok && !attached[c] {
				f.diagnose(span(fset, c.Pos(), c.End()), KindDirective, "%s must be in the doc comment of a function", exportDirective)
			}
		}
	}
}

func directiveArg(text, directive string) (string, bool) {
	rest, ok := strings.CutPrefix(text, directive)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (f *File) directive(fset *token.FileSet, c *ast.Comment, arg string) Directive {
	return Directive{
		Start: fset.Position(c.Pos()).Offset,
		End:   fset.Position(c.End()).Offset,
		Arg:   arg,
		Span:  span(fset, c.Pos(), c.End()),
	}
}

func (f *File) diagnose(sp callexpr.Span, kind, format string, args ...any) {
	f.Diagnostics = append(f.Diagnostics, Diagnostic{Span: sp, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// markerImport finds the marker package's import, which may be renamed.
func markerImport(af *ast.File, qualifier string) (string, string, bool) {
	for _, imp := range af.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == qualifier || path.Base(p) == qualifier {
			return p, name, true
		}
	}
	return "", "", false
}

func (f *File) scanMarkers(fset *token.FileSet, af *ast.File, marker string) {
	qualifier, fn, ok := strings.Cut(marker, ".")
	if !ok {
		return
	}
	f.markerPath, f.markerName, ok = markerImport(af, qualifier)
	if !ok {
		return
	}

	astutil.Apply(af, func(c *astutil.Cursor) bool {
		call, ok := c.Node().(*ast.CallExpr)
		if !ok || !isMarker(call.Fun, f.markerName, fn) {
			return true
		}
		m, ok := f.marker(fset, call)
		if !ok {
			return false
		}
		m.Assigned = assignedCount(c.Parent(), call)
		f.Markers = append(f.Markers, m)
		return false
	}, nil)
}

func isMarker(fun ast.Expr, qualifier, name string) bool {
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	return ok && id.Name == qualifier
}

func (f *File) marker(fset *token.FileSet, call *ast.CallExpr) (Marker, bool) {
	sp := span(fset, call.Pos(), call.End())
	if len(call.Args) != 2 {
		f.diagnose(sp, KindMarker, "marker takes an environment and a call expression, got %d arguments", len(call.Args))
		return Marker{}, false
	}
	lit, ok := call.Args[1].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		f.diagnose(span(fset, call.Args[1].Pos(), call.Args[1].End()), KindMarker, "call expression must be a string literal")
		return Marker{}, false
	}
	expr, err := strconv.Unquote(lit.Value)
	if err != nil {
		f.diagnose(span(fset, lit.Pos(), lit.End()), KindMarker, "invalid string literal: %v", err)
		return Marker{}, false
	}

	envStart := fset.Position(call.Args[0].Pos()).Offset
	envEnd := fset.Position(call.Args[0].End()).Offset
	start := position(fset, lit.Pos())
	start.Offset++
	start.Column++

	return Marker{
		Start:     fset.Position(call.Pos()).Offset,
		End:       fset.Position(call.End()).Offset,
		Env:       string(f.Src[envStart:envEnd]),
		Expr:      expr,
		ExprStart: start,
		Span:      sp,
	}, true
}

func assignedCount(parent ast.Node, call *ast.CallExpr) int {
	switch p := parent.(type) {
	case *ast.ExprStmt:
		return 0
	case *ast.AssignStmt:
		if len(p.Rhs) == 1 && p.Rhs[0] == call {
			return len(p.Lhs)
		}
	case *ast.ValueSpec:
		if len(p.Values) == 1 && p.Values[0] == call {
			return len(p.Names)
		}
	}
	return -1
}
