package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/dhamidi/jnicall/callexpr"
)

// Shape is the Go form of an expanded call, by return kind:
//
//	T                         T
//	Option<C>                 (jni.Object, bool)
//	Result<void, String>      error
//	Result<T, String>         (T, error)
//	Result<Option<C>, String> (jni.Object, bool, error)
//
// An assertive void return expands to a statement.
type Shape struct {
	Value    bool
	Optional bool
	Fallible bool
}

func ShapeOf(ret *callexpr.Return) Shape {
	payload := ret.Payload()
	return Shape{
		Value:    !payload.IsVoid(),
		Optional: ret.Nullable(),
		Fallible: ret.Fallible(),
	}
}

// Arity is the number of values the expansion yields.
func (s Shape) Arity() int {
	n := 0
	if s.Value {
		n++
	}
	if s.Optional {
		n++
	}
	if s.Fallible {
		n++
	}
	return n
}

// goType is the Go type of the converted payload as seen by the caller.
func (r *renderer) goType(ty callexpr.Type) jen.Code {
	if ty.IsObject() {
		return r.q("Object")
	}
	return jen.Id(ty.GoType())
}

func (r *renderer) resultTypes() []jen.Code {
	payload := r.call.Return.Payload()
	var types []jen.Code
	if r.shape.Value {
		types = append(types, r.goType(payload))
	}
	if r.shape.Optional {
		types = append(types, jen.Bool())
	}
	if r.shape.Fallible {
		types = append(types, jen.Error())
	}
	return types
}

func zeroValue(ty callexpr.Type) jen.Code {
	switch {
	case ty.IsObject():
		return jen.Nil()
	case ty.Primitive() == callexpr.JavaBoolean:
		return jen.False()
	}
	return jen.Lit(0)
}

// convert reads the raw result as the declared payload kind. A mismatch
// means the call expression was declared wrong, which is fatal.
func (r *renderer) convert(op Op) []jen.Code {
	w := wireOf(op.Type)
	msg := wrongTypeMsg(r.call, op.Type)
	if op.Type.IsVoid() {
		return []jen.Code{r.fatalIfCallErr(jen.Id(resVar).Dot(w.accessor).Call(), msg)}
	}
	return []jen.Code{
		jen.List(jen.Id(valVar), jen.Id(errVar)).Op(":=").Id(resVar).Dot(w.accessor).Call(),
		r.fatalIfErr(msg),
	}
}

func (r *renderer) nullCheck() []jen.Code {
	return []jen.Code{
		jen.If(r.q("IsNull").Call(jen.Id(valVar))).Block(
			jen.Panic(jen.Qual("fmt", "Errorf").Call(jen.Lit(nullReturnMsg(r.call)))),
		),
	}
}

func (r *renderer) optionWrap() []jen.Code {
	return []jen.Code{
		jen.Id(okVar).Op(":=").Op("!").Add(r.q("IsNull").Call(jen.Id(valVar))),
	}
}

func (r *renderer) exceptionCheck(op Op) []jen.Code {
	payload := r.call.Return.Payload()
	var results []jen.Code
	if r.shape.Value {
		results = append(results, zeroValue(payload))
	}
	if r.shape.Optional {
		results = append(results, jen.False())
	}
	results = append(results, jen.Id(errVar))
	return []jen.Code{
		jen.If(
			jen.Id(errVar).Op(":=").Id(envVar).Dot("CatchException").Call(),
			jen.Id(errVar).Op("!=").Nil(),
		).Block(jen.Return(results...)),
	}
}

func (r *renderer) ret(op Op) []jen.Code {
	var tail []jen.Code
	if r.shape.Fallible {
		tail = append(tail, jen.Nil())
	}

	if r.shape.Optional {
		absent := append([]jen.Code{jen.Nil(), jen.False()}, tail...)
		present := append([]jen.Code{jen.Id(valVar), jen.True()}, tail...)
		return []jen.Code{
			jen.If(jen.Op("!").Id(okVar)).Block(jen.Return(absent...)),
			jen.Return(present...),
		}
	}

	var results []jen.Code
	if r.shape.Value {
		results = append(results, r.fromWire(op.Type, jen.Id(valVar)))
	}
	results = append(results, tail...)
	if len(results) == 0 {
		return nil
	}
	return []jen.Code{jen.Return(results...)}
}
