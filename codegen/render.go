package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/dhamidi/jnicall/callexpr"
)

const DefaultBridge = "github.com/dhamidi/jnicall/jni"

// Names of the locals in a rendered expansion. The jni prefix keeps them
// from capturing identifiers used in parameter expressions.
const (
	envVar = "jniEnv"
	resVar = "jniRes"
	valVar = "jniVal"
	errVar = "jniErr"
	okVar  = "jniOk"
)

type Options struct {
	// Bridge is the import path of the bridge package.
	Bridge string
	// BridgeName is the name the bridge is imported as.
	BridgeName string
	// Env is the Go expression evaluating to the bridge environment.
	Env string
}

func (o Options) withDefaults() Options {
	if o.Bridge == "" {
		o.Bridge = DefaultBridge
	}
	if o.BridgeName == "" {
		o.BridgeName = "jni"
	}
	if o.Env == "" {
		o.Env = "env"
	}
	return o
}

type renderer struct {
	opts  Options
	plan  *Plan
	call  *callexpr.MethodCall
	shape Shape
}

func (r *renderer) q(name string) *jen.Statement {
	return jen.Qual(r.opts.Bridge, name)
}

func (r *renderer) fatalIfErr(msg string) jen.Code {
	return jen.If(jen.Id(errVar).Op("!=").Nil()).Block(
		jen.Panic(jen.Qual("fmt", "Errorf").Call(jen.Lit(msg), jen.Id(errVar))),
	)
}

func (r *renderer) fatalIfCallErr(call jen.Code, msg string) jen.Code {
	return jen.If(
		jen.Id(errVar).Op(":=").Add(call),
		jen.Id(errVar).Op("!=").Nil(),
	).Block(
		jen.Panic(jen.Qual("fmt", "Errorf").Call(jen.Lit(msg), jen.Id(errVar))),
	)
}

func (r *renderer) invoke() []jen.Code {
	args := jen.Nil()
	if len(r.plan.Args) > 0 {
		values := make([]jen.Code, len(r.plan.Args))
		for i, arg := range r.plan.Args {
			values[i] = r.argValue(arg)
		}
		args = jen.Index().Add(r.q("Value")).Values(values...)
	}

	t := r.call.Target
	var call *jen.Statement
	if t.Kind == callexpr.TargetStatic {
		call = jen.Id(envVar).Dot("CallStaticMethod").Call(
			jen.Lit(t.Class.JNIName()), jen.Lit(r.call.Method), jen.Lit(r.plan.Signature), args,
		)
	} else {
		call = jen.Id(envVar).Dot("CallMethod").Call(
			jen.Id(t.Receiver), jen.Lit(r.call.Method), jen.Lit(r.plan.Signature), args,
		)
	}
	return []jen.Code{
		jen.List(jen.Id(resVar), jen.Id(errVar)).Op(":=").Add(call),
		r.fatalIfErr(callFailedMsg(r.call)),
	}
}

func (r *renderer) body() []jen.Code {
	body := []jen.Code{jen.Id(envVar).Op(":=").Id(r.opts.Env)}
	for _, op := range r.plan.Ops {
		var arg Arg
		if op.Kind <= OpSetObjectElement {
			arg = r.plan.Args[op.Param]
		}
		switch op.Kind {
		case OpNewPrimitiveArray:
			body = append(body, r.newPrimitiveArray(op, arg)...)
		case OpFillPrimitiveArray:
			body = append(body, r.fillPrimitiveArray(op, arg)...)
		case OpNewObjectArray:
			body = append(body, r.newObjectArray(op, arg)...)
		case OpSetObjectElement:
			body = append(body, r.setObjectElement(op, arg)...)
		case OpInvoke:
			body = append(body, r.invoke()...)
		case OpConvert:
			body = append(body, r.convert(op)...)
		case OpNullCheck:
			body = append(body, r.nullCheck()...)
		case OpOptionWrap:
			body = append(body, r.optionWrap()...)
		case OpExceptionCheck:
			body = append(body, r.exceptionCheck(op)...)
		case OpReturn:
			body = append(body, r.ret(op)...)
		}
	}
	return body
}

// Statement builds the expansion as a function literal invoked in place.
func (p *Plan) Statement(opts Options) *jen.Statement {
	r := &renderer{
		opts:  opts.withDefaults(),
		plan:  p,
		call:  p.Call,
		shape: ShapeOf(&p.Call.Return),
	}
	fn := jen.Func().Params()
	switch types := r.resultTypes(); len(types) {
	case 0:
	case 1:
		fn = fn.Add(types[0])
	default:
		fn = fn.Params(types...)
	}
	return fn.Block(r.body()...).Call()
}

// Render formats the expansion as Go source. Bridge identifiers are
// qualified with opts.BridgeName and fmt with "fmt"; the caller is
// responsible for importing both.
func (p *Plan) Render(opts Options) (string, error) {
	opts = opts.withDefaults()
	f := jen.NewFile("expansion")
	f.ImportName(opts.Bridge, opts.BridgeName)
	f.ImportName("fmt", "fmt")
	// A bare function literal does not parse as a file, so it is rendered
	// as the value of a blank package-level var and cut out again.
	f.Var().Id("_").Op("=").Add(p.Statement(opts))

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("render %s: %w", p.Call.Method, err)
	}
	_, code, ok := strings.Cut(buf.String(), "\nvar _ = ")
	if !ok {
		return "", fmt.Errorf("render %s: expansion not found in rendered file", p.Call.Method)
	}
	return strings.TrimSpace(code), nil
}

// Expand parses a call expression and renders its expansion.
func Expand(src string, opts Options, parseOpts ...callexpr.Option) (string, *Plan, error) {
	call, err := callexpr.Parse(src, parseOpts...)
	if err != nil {
		return "", nil, err
	}
	plan := Lower(call)
	out, err := plan.Render(opts)
	if err != nil {
		return "", nil, err
	}
	return out, plan, nil
}
