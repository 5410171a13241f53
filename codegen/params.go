package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/dhamidi/jnicall/callexpr"
)

// wire describes how values of one Java primitive cross the bridge: the
// Value accessor and constructor, the array allocator/filler stem, and the
// Go type of the raw value.
type wire struct {
	accessor string
	ctor     string
	goType   string
}

var wires = map[callexpr.JavaPrimitive]wire{
	callexpr.JavaVoid:    {"V", "Void", ""},
	callexpr.JavaBoolean: {"Z", "Boolean", "uint8"},
	callexpr.JavaByte:    {"B", "Byte", "int8"},
	callexpr.JavaChar:    {"C", "Char", "uint16"},
	callexpr.JavaShort:   {"S", "Short", "int16"},
	callexpr.JavaInt:     {"I", "Int", "int32"},
	callexpr.JavaLong:    {"J", "Long", "int64"},
	callexpr.JavaFloat:   {"F", "Float", "float32"},
	callexpr.JavaDouble:  {"D", "Double", "float64"},
}

func wireOf(ty callexpr.Type) wire {
	if ty.IsObject() {
		return wire{accessor: "L", ctor: "Ref"}
	}
	return wires[ty.Primitive()]
}

// toWireFunc names the bridge helper that turns a host value of ty into its
// wire form, or "" when the Go value already is the wire value.
func toWireFunc(ty callexpr.Type) string {
	if ty.Primitive() == callexpr.JavaBoolean && !ty.IsObject() {
		return "BoolToWire"
	}
	if ty.Kind != callexpr.TypeHost {
		return ""
	}
	switch ty.Host {
	case callexpr.HostChar:
		return "EncodeChar"
	case callexpr.HostU8:
		return "U8ToWire"
	case callexpr.HostU16:
		return "U16ToWire"
	case callexpr.HostU32:
		return "U32ToWire"
	case callexpr.HostU64:
		return "U64ToWire"
	}
	return ""
}

// fromWireFunc is the inverse of toWireFunc.
func fromWireFunc(ty callexpr.Type) string {
	if ty.Primitive() == callexpr.JavaBoolean && !ty.IsObject() {
		return "WireToBool"
	}
	if ty.Kind != callexpr.TypeHost {
		return ""
	}
	switch ty.Host {
	case callexpr.HostChar:
		return "DecodeChar"
	case callexpr.HostU8:
		return "WireToU8"
	case callexpr.HostU16:
		return "WireToU16"
	case callexpr.HostU32:
		return "WireToU32"
	case callexpr.HostU64:
		return "WireToU64"
	}
	return ""
}

// toWire wraps expr in the conversion from its host type to the wire type.
func (r *renderer) toWire(ty callexpr.Type, expr jen.Code) jen.Code {
	if fn := toWireFunc(ty); fn != "" {
		return r.q(fn).Call(expr)
	}
	return expr
}

func (r *renderer) fromWire(ty callexpr.Type, expr jen.Code) jen.Code {
	if fn := fromWireFunc(ty); fn != "" {
		return r.q(fn).Call(expr)
	}
	return expr
}

// argValue is the jni.Value passed to the bridge for one parameter. Objects
// and arrays are passed by reference; the bridge keeps ownership.
func (r *renderer) argValue(arg Arg) jen.Code {
	param := arg.Param
	switch {
	case arg.Var != "":
		return r.q("Ref").Call(jen.Id(arg.Var))
	case param.IsArray() || param.Type.IsObject():
		return r.q("Ref").Call(jen.Id(param.Value))
	}
	w := wireOf(param.Type)
	return r.q(w.ctor).Call(r.toWire(param.Type, jen.Id(param.Value)))
}

// newPrimitiveArray allocates the array for a primitive literal.
func (r *renderer) newPrimitiveArray(op Op, arg Arg) []jen.Code {
	w := wireOf(op.Type)
	return []jen.Code{
		jen.List(jen.Id(arg.Var), jen.Id(errVar)).Op(":=").Id(envVar).Dot("New" + w.ctor + "Array").Call(jen.Lit(op.Len)),
		r.fatalIfErr(allocFailedMsg(r.call, op.Type, op.Len)),
	}
}

// fillPrimitiveArray copies every literal element into the array with one
// region write.
func (r *renderer) fillPrimitiveArray(op Op, arg Arg) []jen.Code {
	w := wireOf(op.Type)
	elems := make([]jen.Code, len(arg.Param.Elements))
	for i, e := range arg.Param.Elements {
		elems[i] = r.toWire(op.Type, jen.Id(e))
	}
	buf := jen.Index().Id(w.goType).Values(elems...)
	return []jen.Code{
		r.fatalIfCallErr(
			jen.Id(envVar).Dot("Set"+w.ctor+"ArrayRegion").Call(jen.Id(arg.Var), jen.Lit(0), buf),
			fillFailedMsg(r.call, op.Type),
		),
	}
}

func (r *renderer) newObjectArray(op Op, arg Arg) []jen.Code {
	return []jen.Code{
		jen.List(jen.Id(arg.Var), jen.Id(errVar)).Op(":=").Id(envVar).Dot("NewObjectArray").Call(
			jen.Lit(op.Len), jen.Lit(op.Type.Class.JNIName()), jen.Nil(),
		),
		r.fatalIfErr(allocFailedMsg(r.call, op.Type, op.Len)),
	}
}

func (r *renderer) setObjectElement(op Op, arg Arg) []jen.Code {
	return []jen.Code{
		r.fatalIfCallErr(
			jen.Id(envVar).Dot("SetObjectArrayElement").Call(jen.Id(arg.Var), jen.Lit(op.Index), jen.Id(arg.Param.Elements[op.Index])),
			setElementFailedMsg(r.call, op.Type, op.Index),
		),
	}
}
