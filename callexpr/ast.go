package callexpr

import "strings"

type TargetKind int

const (
	TargetStatic TargetKind = iota
	TargetInstance
)

// Target is the receiver of a call: a class for static methods, or the
// source text of an expression evaluating to an object for instance methods.
type Target struct {
	Kind     TargetKind
	Class    *ClassPath
	Receiver string
	Span     Span
}

type ParamKind int

const (
	// ParamSingle is `type(value)`.
	ParamSingle ParamKind = iota
	// ParamArray is `[type](value)` where value is an existing Java array.
	ParamArray
	// ParamArrayLiteral is `[type]([a, b, c])`.
	ParamArrayLiteral
)

type Parameter struct {
	Kind     ParamKind
	Type     Type
	Value    string
	Elements []string
	Span     Span
}

func (p *Parameter) IsArray() bool {
	return p.Kind == ParamArray || p.Kind == ParamArrayLiteral
}

// Signature is the parameter's contribution to the method signature.
func (p *Parameter) Signature() string {
	if p.IsArray() {
		return "[" + p.Type.Signature()
	}
	return p.Type.Signature()
}

type ReturnKind int

const (
	// ReturnAssertive: never null, never throws.
	ReturnAssertive ReturnKind = iota
	// ReturnOption: a possibly null object.
	ReturnOption
	// ReturnResult: a call that may throw.
	ReturnResult
)

// ErrorType is the error representation of a Result return.
type ErrorType int

const (
	ErrorString ErrorType = iota
)

func (e ErrorType) String() string {
	return "String"
}

// Return is the return specification of a call.
//
//	Assertive: Type is set.
//	Option:    Class is set.
//	Result:    Ok holds an Assertive or Option return, never another Result.
type Return struct {
	Kind  ReturnKind
	Type  Type
	Class *ClassPath
	Ok    *Return
	Err   ErrorType
	Span  Span
}

// Payload is the innermost type carried by the return, with Option and
// Result wrapping erased. It is what the JVM sees.
func (r *Return) Payload() Type {
	switch r.Kind {
	case ReturnOption:
		return ObjectType(r.Class)
	case ReturnResult:
		return r.Ok.Payload()
	}
	return r.Type
}

// Nullable reports whether a null object maps to an absent value rather
// than a fatal error.
func (r *Return) Nullable() bool {
	switch r.Kind {
	case ReturnOption:
		return true
	case ReturnResult:
		return r.Ok.Nullable()
	}
	return false
}

func (r *Return) Fallible() bool {
	return r.Kind == ReturnResult
}

func (r *Return) String() string {
	switch r.Kind {
	case ReturnOption:
		return "Option<" + r.Class.String() + ">"
	case ReturnResult:
		return "Result<" + r.Ok.String() + ", " + r.Err.String() + ">"
	}
	return r.Type.Keyword()
}

type MethodCall struct {
	Target     Target
	Method     string
	MethodSpan Span
	Params     []Parameter
	Return     Return
	Span       Span
}

// Signature is the JNI method signature, e.g. (Z[I)V.
func (c *MethodCall) Signature() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i := range c.Params {
		sb.WriteString(c.Params[i].Signature())
	}
	sb.WriteByte(')')
	sb.WriteString(c.Return.Payload().Signature())
	return sb.String()
}
