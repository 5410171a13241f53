package callexpr

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrEmptyPath
	ErrMissingPackage
	ErrTrailingSeparator
	ErrVoidNotAllowedHere
	ErrOptionRequiresObjectType
	ErrNestedResultNotAllowed
	ErrUnsupportedErrorType
)

var errorKindNames = map[ErrorKind]string{
	ErrSyntax:                   "SyntaxError",
	ErrEmptyPath:                "EmptyPath",
	ErrMissingPackage:           "MissingPackage",
	ErrTrailingSeparator:        "TrailingSeparator",
	ErrVoidNotAllowedHere:       "VoidNotAllowedHere",
	ErrOptionRequiresObjectType: "OptionRequiresObjectType",
	ErrNestedResultNotAllowed:   "NestedResultNotAllowed",
	ErrUnsupportedErrorType:     "UnsupportedErrorType",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is an expansion-time diagnostic. Span always points at the
// offending token, never at the start of the expression.
type Error struct {
	Kind     ErrorKind
	Span     Span
	Message  string
	Expected []TokenKind
	Got      *Token
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Span.Start.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = fmt.Sprintf("%q", k.String())
		}
		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(names, " or "))
		if e.Got != nil {
			sb.WriteString(", got ")
			sb.WriteString(describeToken(*e.Got))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func describeToken(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func errorAt(kind ErrorKind, span Span, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}
