package rewrite

import (
	"errors"
	"go/token"
	"strings"

	"github.com/dhamidi/jnicall/callexpr"
)

const (
	KindMarker    = "Marker"
	KindDirective = "Directive"
	KindArity     = "Arity"
	KindGo        = "GoSyntax"
)

// Diagnostic is an expansion-time problem at one place in a source file.
type Diagnostic struct {
	Span    callexpr.Span
	Kind    string
	Message string
}

func (d Diagnostic) Error() string {
	return d.Span.Start.String() + ": " + d.Message
}

func diagnosticFromError(err error) Diagnostic {
	var perr *callexpr.Error
	if errors.As(err, &perr) {
		return Diagnostic{
			Span:    perr.Span,
			Kind:    perr.Kind.String(),
			Message: strings.TrimPrefix(perr.Error(), perr.Span.Start.String()+": "),
		}
	}
	return Diagnostic{Kind: KindMarker, Message: err.Error()}
}

func position(fset *token.FileSet, pos token.Pos) callexpr.Position {
	p := fset.Position(pos)
	return callexpr.Position{File: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func span(fset *token.FileSet, from, to token.Pos) callexpr.Span {
	return callexpr.Span{Start: position(fset, from), End: position(fset, to)}
}

// Diagnostics is the error returned when a file could not be expanded.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
