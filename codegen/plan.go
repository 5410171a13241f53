// Package codegen turns a parsed call expression into the ordered sequence
// of bridge operations that performs it, and renders that sequence as Go.
package codegen

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jnicall/callexpr"
)

type OpKind int

const (
	OpNewPrimitiveArray OpKind = iota
	OpFillPrimitiveArray
	OpNewObjectArray
	OpSetObjectElement
	OpInvoke
	OpConvert
	OpNullCheck
	OpOptionWrap
	OpExceptionCheck
	OpReturn
)

var opKindNames = map[OpKind]string{
	OpNewPrimitiveArray:  "new-primitive-array",
	OpFillPrimitiveArray: "fill-primitive-array",
	OpNewObjectArray:     "new-object-array",
	OpSetObjectElement:   "set-object-element",
	OpInvoke:             "invoke",
	OpConvert:            "convert",
	OpNullCheck:          "null-check",
	OpOptionWrap:         "option-wrap",
	OpExceptionCheck:     "exception-check",
	OpReturn:             "return",
}

func (k OpKind) String() string {
	if name, ok := opKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Op is one step of a plan. Param indexes Plan.Args for the array
// operations; Index is the element index for OpSetObjectElement.
type Op struct {
	Kind  OpKind
	Param int
	Len   int
	Index int
	Type  callexpr.Type
}

// Arg is one marshalled argument. Var names the local holding an array
// built from a literal; it is empty for values passed straight through.
type Arg struct {
	Param *callexpr.Parameter
	Var   string
}

type Plan struct {
	Call      *callexpr.MethodCall
	Signature string
	Args      []Arg
	Ops       []Op
}

// Lower computes the operation sequence for call. Array literals are built
// first, in parameter order; the result is then converted, null-checked or
// wrapped, and exception-checked in that fixed order.
func Lower(call *callexpr.MethodCall) *Plan {
	p := &Plan{
		Call:      call,
		Signature: call.Signature(),
		Args:      make([]Arg, len(call.Params)),
	}

	for i := range call.Params {
		param := &call.Params[i]
		p.Args[i] = Arg{Param: param}
		if param.Kind != callexpr.ParamArrayLiteral {
			continue
		}
		p.Args[i].Var = fmt.Sprintf("jniArg%d", i)
		n := len(param.Elements)
		if param.Type.IsObject() {
			p.add(Op{Kind: OpNewObjectArray, Param: i, Len: n, Type: param.Type})
			for j := range param.Elements {
				p.add(Op{Kind: OpSetObjectElement, Param: i, Index: j, Type: param.Type})
			}
			continue
		}
		p.add(Op{Kind: OpNewPrimitiveArray, Param: i, Len: n, Type: param.Type})
		if n > 0 {
			p.add(Op{Kind: OpFillPrimitiveArray, Param: i, Len: n, Type: param.Type})
		}
	}

	ret := &call.Return
	payload := ret.Payload()
	p.add(Op{Kind: OpInvoke})
	p.add(Op{Kind: OpConvert, Type: payload})

	switch {
	case ret.Nullable():
		p.add(Op{Kind: OpOptionWrap, Type: payload})
	case payload.IsObject():
		p.add(Op{Kind: OpNullCheck, Type: payload})
	}
	if ret.Fallible() {
		p.add(Op{Kind: OpExceptionCheck})
	}
	p.add(Op{Kind: OpReturn, Type: payload})
	return p
}

func (p *Plan) add(op Op) {
	p.Ops = append(p.Ops, op)
}

// Count returns the number of ops of the given kind.
func (p *Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Kinds returns the op kinds in order.
func (p *Plan) Kinds() []OpKind {
	kinds := make([]OpKind, len(p.Ops))
	for i, op := range p.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

// String lists the plan one op per line, for the CLI and REPL.
func (p *Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", p.Call.Method, p.Signature)
	for _, op := range p.Ops {
		sb.WriteString("  ")
		sb.WriteString(op.Kind.String())
		switch op.Kind {
		case OpNewPrimitiveArray, OpNewObjectArray:
			fmt.Fprintf(&sb, " %s[%d] -> %s", op.Type, op.Len, p.Args[op.Param].Var)
		case OpFillPrimitiveArray:
			fmt.Fprintf(&sb, " %s[0:%d]", p.Args[op.Param].Var, op.Len)
		case OpSetObjectElement:
			fmt.Fprintf(&sb, " %s[%d] = %s", p.Args[op.Param].Var, op.Index, p.Args[op.Param].Param.Elements[op.Index])
		case OpInvoke:
			fmt.Fprintf(&sb, " %s", p.target())
		case OpConvert, OpNullCheck, OpOptionWrap, OpReturn:
			fmt.Fprintf(&sb, " %s", op.Type.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Plan) target() string {
	t := p.Call.Target
	if t.Kind == callexpr.TargetStatic {
		return t.Class.String() + "." + p.Call.Method
	}
	return "(" + t.Receiver + ")." + p.Call.Method
}
