package lsp

import (
	"go/scanner"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/codegen"
	"github.com/dhamidi/jnicall/descriptor"
	"github.com/dhamidi/jnicall/rewrite"
)

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return hover(doc.file, params.Position), nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if _, ok := markerAt(doc.file, params.Position); !ok {
		return nil, nil
	}
	return completions(), nil
}

func toProtocolPosition(p callexpr.Position) protocol.Position {
	if p.Line == 0 {
		return protocol.Position{}
	}
	return protocol.Position{Line: uint32(p.Line - 1), Character: uint32(p.Column - 1)}
}

func toProtocolRange(sp callexpr.Span) protocol.Range {
	end := sp.End
	if end.Line == 0 {
		end = sp.Start
	}
	return protocol.Range{Start: toProtocolPosition(sp.Start), End: toProtocolPosition(end)}
}

func toProtocolDiagnostic(d rewrite.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    toProtocolRange(d.Span),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Kind},
		Source:   &source,
		Message:  d.Message,
	}
}

func goSyntaxDiagnostic(e *scanner.Error) protocol.Diagnostic {
	pos := callexpr.Position{Line: e.Pos.Line, Column: e.Pos.Column}
	return toProtocolDiagnostic(rewrite.Diagnostic{
		Span:    callexpr.Span{Start: pos, End: pos},
		Kind:    rewrite.KindGo,
		Message: e.Msg,
	})
}

// contains reports whether pos falls in sp; the end is exclusive.
func contains(sp callexpr.Span, pos protocol.Position) bool {
	line, col := int(pos.Line)+1, int(pos.Character)+1
	if line < sp.Start.Line || line > sp.End.Line {
		return false
	}
	if line == sp.Start.Line && col < sp.Start.Column {
		return false
	}
	if line == sp.End.Line && col >= sp.End.Column {
		return false
	}
	return true
}

func markerAt(f *rewrite.File, pos protocol.Position) (rewrite.Marker, bool) {
	if f == nil {
		return rewrite.Marker{}, false
	}
	for _, m := range f.Markers {
		if contains(m.Span, pos) {
			return m, true
		}
	}
	return rewrite.Marker{}, false
}

// hover describes the Java method a marker calls and the operations its
// expansion performs.
func hover(f *rewrite.File, pos protocol.Position) *protocol.Hover {
	m, ok := markerAt(f, pos)
	if !ok {
		return nil
	}
	call, err := callexpr.Parse(m.Expr)
	if err != nil {
		return nil
	}
	plan := codegen.Lower(call)

	var sb strings.Builder
	if method, err := descriptor.ParseMethod(plan.Signature); err == nil {
		sb.WriteString("```java\n")
		sb.WriteString(method.Declaration(call.Method))
		sb.WriteString("\n```\n\n")
	}
	sb.WriteString("```\n")
	sb.WriteString(plan.String())
	sb.WriteString("```\n")

	rng := toProtocolRange(m.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sb.String(),
		},
		Range: &rng,
	}
}

var wrapperKeywords = []string{"static", "Option", "Result", "String"}

func completions() []protocol.CompletionItem {
	var items []protocol.CompletionItem
	kind := protocol.CompletionItemKindKeyword
	for _, kw := range append(callexpr.Keywords(), wrapperKeywords...) {
		items = append(items, protocol.CompletionItem{
			Label: kw,
			Kind:  &kind,
		})
	}
	return items
}
