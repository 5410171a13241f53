package codegen

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/jnicall/callexpr"
	"github.com/dhamidi/jnicall/jni"
)

// Outcome is what an executed plan yields, in the terms of its Shape.
type Outcome struct {
	Value   any
	Present bool
	Err     error
}

// FatalError marks a failure the generated code turns into a panic.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Bindings supplies the values of parameter and receiver expressions by
// their source text. Values must have the Go type the expression would
// have in generated code; simple literals are parsed when unbound.
type Bindings map[string]any

// Exec runs the plan against env the way the rendered code would, which
// lets the plan be checked without compiling it. Where the rendered code
// panics, Exec returns a *FatalError.
func Exec(p *Plan, env jni.Env, bind Bindings) (Outcome, error) {
	x := &executor{plan: p, env: env, bind: bind, arrays: map[int]jni.Object{}}
	return x.run()
}

type executor struct {
	plan   *Plan
	env    jni.Env
	bind   Bindings
	arrays map[int]jni.Object
	res    jni.Value
	val    jni.Value
	ok     bool
}

func fatal(format string, args ...any) error {
	return &FatalError{Err: fmt.Errorf(format, args...)}
}

func (x *executor) run() (Outcome, error) {
	call := x.plan.Call
	for _, op := range x.plan.Ops {
		switch op.Kind {
		case OpNewPrimitiveArray:
			arr, err := x.newPrimitiveArray(op)
			if err != nil {
				return Outcome{}, fatal(allocFailedMsg(call, op.Type, op.Len), err)
			}
			x.arrays[op.Param] = arr
		case OpFillPrimitiveArray:
			if err := x.fillPrimitiveArray(op); err != nil {
				return Outcome{}, fatal(fillFailedMsg(call, op.Type), err)
			}
		case OpNewObjectArray:
			arr, err := x.env.NewObjectArray(op.Len, op.Type.Class.JNIName(), nil)
			if err != nil {
				return Outcome{}, fatal(allocFailedMsg(call, op.Type, op.Len), err)
			}
			x.arrays[op.Param] = arr
		case OpSetObjectElement:
			err := x.setObjectElement(op)
			if err != nil {
				return Outcome{}, fatal(setElementFailedMsg(call, op.Type, op.Index), err)
			}
		case OpInvoke:
			res, err := x.invoke()
			if err != nil {
				return Outcome{}, fatal(callFailedMsg(call), err)
			}
			x.res = res
		case OpConvert:
			if err := x.convert(op.Type); err != nil {
				return Outcome{}, fatal(wrongTypeMsg(call, op.Type), err)
			}
		case OpNullCheck:
			obj, _ := x.val.L()
			if jni.IsNull(obj) {
				return Outcome{}, &FatalError{Err: fmt.Errorf("%s", nullReturnMsg(call))}
			}
		case OpOptionWrap:
			obj, _ := x.val.L()
			x.ok = !jni.IsNull(obj)
		case OpExceptionCheck:
			if err := x.env.CatchException(); err != nil {
				return Outcome{Err: err}, nil
			}
		case OpReturn:
			return x.outcome(op.Type)
		}
	}
	return Outcome{}, nil
}

func (x *executor) outcome(ty callexpr.Type) (Outcome, error) {
	shape := ShapeOf(&x.plan.Call.Return)
	if !shape.Value {
		return Outcome{}, nil
	}
	if shape.Optional {
		if !x.ok {
			return Outcome{}, nil
		}
		obj, _ := x.val.L()
		return Outcome{Value: obj, Present: true}, nil
	}
	v, err := fromWireValue(ty, x.val)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Value: v, Present: true}, nil
}

func (x *executor) convert(ty callexpr.Type) error {
	if ty.IsVoid() {
		return x.res.V()
	}
	var err error
	switch wireOf(ty).accessor {
	case "Z":
		_, err = x.res.Z()
	case "B":
		_, err = x.res.B()
	case "C":
		_, err = x.res.C()
	case "S":
		_, err = x.res.S()
	case "I":
		_, err = x.res.I()
	case "J":
		_, err = x.res.J()
	case "F":
		_, err = x.res.F()
	case "D":
		_, err = x.res.D()
	case "L":
		_, err = x.res.L()
	}
	if err != nil {
		return err
	}
	x.val = x.res
	return nil
}

func (x *executor) invoke() (jni.Value, error) {
	args := make([]jni.Value, len(x.plan.Args))
	for i, arg := range x.plan.Args {
		v, err := x.argValue(i, arg)
		if err != nil {
			return jni.Value{}, err
		}
		args[i] = v
	}
	if len(args) == 0 {
		args = nil
	}

	call := x.plan.Call
	if call.Target.Kind == callexpr.TargetStatic {
		return x.env.CallStaticMethod(call.Target.Class.JNIName(), call.Method, x.plan.Signature, args)
	}
	recv, err := x.object(call.Target.Receiver)
	if err != nil {
		return jni.Value{}, err
	}
	return x.env.CallMethod(recv, call.Method, x.plan.Signature, args)
}

func (x *executor) argValue(i int, arg Arg) (jni.Value, error) {
	param := arg.Param
	switch {
	case arg.Var != "":
		return jni.Ref(x.arrays[i]), nil
	case param.IsArray() || param.Type.IsObject():
		obj, err := x.object(param.Value)
		if err != nil {
			return jni.Value{}, err
		}
		return jni.Ref(obj), nil
	}
	v, err := x.lookup(param.Type, param.Value)
	if err != nil {
		return jni.Value{}, err
	}
	return toWireValue(param.Type, v)
}

func (x *executor) newPrimitiveArray(op Op) (jni.Object, error) {
	switch op.Type.Primitive() {
	case callexpr.JavaBoolean:
		return x.env.NewBooleanArray(op.Len)
	case callexpr.JavaByte:
		return x.env.NewByteArray(op.Len)
	case callexpr.JavaChar:
		return x.env.NewCharArray(op.Len)
	case callexpr.JavaShort:
		return x.env.NewShortArray(op.Len)
	case callexpr.JavaInt:
		return x.env.NewIntArray(op.Len)
	case callexpr.JavaLong:
		return x.env.NewLongArray(op.Len)
	case callexpr.JavaFloat:
		return x.env.NewFloatArray(op.Len)
	case callexpr.JavaDouble:
		return x.env.NewDoubleArray(op.Len)
	}
	return nil, fmt.Errorf("no array of %s", op.Type)
}

func (x *executor) fillPrimitiveArray(op Op) error {
	param := x.plan.Args[op.Param].Param
	vals := make([]jni.Value, len(param.Elements))
	for i, e := range param.Elements {
		v, err := x.lookup(op.Type, e)
		if err != nil {
			return err
		}
		if vals[i], err = toWireValue(op.Type, v); err != nil {
			return err
		}
	}

	arr := x.arrays[op.Param]
	switch op.Type.Primitive() {
	case callexpr.JavaBoolean:
		return x.env.SetBooleanArrayRegion(arr, 0, collect(vals, jni.Value.Z))
	case callexpr.JavaByte:
		return x.env.SetByteArrayRegion(arr, 0, collect(vals, jni.Value.B))
	case callexpr.JavaChar:
		return x.env.SetCharArrayRegion(arr, 0, collect(vals, jni.Value.C))
	case callexpr.JavaShort:
		return x.env.SetShortArrayRegion(arr, 0, collect(vals, jni.Value.S))
	case callexpr.JavaInt:
		return x.env.SetIntArrayRegion(arr, 0, collect(vals, jni.Value.I))
	case callexpr.JavaLong:
		return x.env.SetLongArrayRegion(arr, 0, collect(vals, jni.Value.J))
	case callexpr.JavaFloat:
		return x.env.SetFloatArrayRegion(arr, 0, collect(vals, jni.Value.F))
	case callexpr.JavaDouble:
		return x.env.SetDoubleArrayRegion(arr, 0, collect(vals, jni.Value.D))
	}
	return fmt.Errorf("no array of %s", op.Type)
}

func collect[T any](vals []jni.Value, get func(jni.Value) (T, error)) []T {
	buf := make([]T, len(vals))
	for i, v := range vals {
		buf[i], _ = get(v)
	}
	return buf
}

func (x *executor) setObjectElement(op Op) error {
	param := x.plan.Args[op.Param].Param
	obj, err := x.object(param.Elements[op.Index])
	if err != nil {
		return err
	}
	return x.env.SetObjectArrayElement(x.arrays[op.Param], op.Index, obj)
}

func (x *executor) object(expr string) (jni.Object, error) {
	v, ok := x.bind[expr]
	if !ok {
		if expr == "nil" {
			return nil, nil
		}
		return nil, fmt.Errorf("no binding for %q", expr)
	}
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(jni.Object)
	if !ok {
		return nil, fmt.Errorf("binding for %q is %T, not an object", expr, v)
	}
	return obj, nil
}

func (x *executor) lookup(ty callexpr.Type, expr string) (any, error) {
	if v, ok := x.bind[expr]; ok {
		return v, nil
	}
	v, err := parseLiteral(ty, expr)
	if err != nil {
		return nil, fmt.Errorf("no binding for %q: %w", expr, err)
	}
	return v, nil
}

// parseLiteral reads a Go basic literal as a value of ty's Go type.
func parseLiteral(ty callexpr.Type, text string) (any, error) {
	switch ty.GoType() {
	case "bool":
		return strconv.ParseBool(text)
	case "rune":
		r, _, tail, err := strconv.UnquoteChar(unquoteRune(text), '\'')
		if err != nil || tail != "" {
			return nil, fmt.Errorf("invalid rune literal %s", text)
		}
		return r, nil
	case "int8":
		n, err := strconv.ParseInt(text, 0, 8)
		return int8(n), err
	case "int16":
		n, err := strconv.ParseInt(text, 0, 16)
		return int16(n), err
	case "int32":
		n, err := strconv.ParseInt(text, 0, 32)
		return int32(n), err
	case "int64":
		return strconv.ParseInt(text, 0, 64)
	case "uint8":
		n, err := strconv.ParseUint(text, 0, 8)
		return uint8(n), err
	case "uint16":
		n, err := strconv.ParseUint(text, 0, 16)
		return uint16(n), err
	case "uint32":
		n, err := strconv.ParseUint(text, 0, 32)
		return uint32(n), err
	case "uint64":
		return strconv.ParseUint(text, 0, 64)
	case "float32":
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	case "float64":
		return strconv.ParseFloat(text, 64)
	}
	return nil, fmt.Errorf("cannot parse %s literal", ty)
}

func unquoteRune(text string) string {
	if len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'' {
		return text[1 : len(text)-1]
	}
	return text
}

func mismatch(ty callexpr.Type, v any) error {
	return fmt.Errorf("value %v (%T) does not have Go type %s", v, v, ty.GoType())
}

// toWireValue mirrors argValue and toWire for a runtime value.
func toWireValue(ty callexpr.Type, v any) (jni.Value, error) {
	switch v := v.(type) {
	case bool:
		if ty.Primitive() == callexpr.JavaBoolean {
			return jni.Boolean(jni.BoolToWire(v)), nil
		}
	case rune:
		if ty.Kind == callexpr.TypeHost && ty.Host == callexpr.HostChar {
			return jni.Char(jni.EncodeChar(v)), nil
		}
		if ty.Primitive() == callexpr.JavaInt {
			return jni.Int(v), nil
		}
	case uint16:
		if ty.Kind == callexpr.TypeHost && ty.Host == callexpr.HostU16 {
			return jni.Short(jni.U16ToWire(v)), nil
		}
		if ty.Kind == callexpr.TypeJava && ty.Java == callexpr.JavaChar {
			return jni.Char(v), nil
		}
	case int8:
		if ty.Primitive() == callexpr.JavaByte && ty.GoType() == "int8" {
			return jni.Byte(v), nil
		}
	case uint8:
		if ty.Kind == callexpr.TypeHost && ty.Host == callexpr.HostU8 {
			return jni.Byte(jni.U8ToWire(v)), nil
		}
	case int16:
		if ty.GoType() == "int16" {
			return jni.Short(v), nil
		}
	case uint32:
		if ty.GoType() == "uint32" {
			return jni.Int(jni.U32ToWire(v)), nil
		}
	case int64:
		if ty.GoType() == "int64" {
			return jni.Long(v), nil
		}
	case uint64:
		if ty.GoType() == "uint64" {
			return jni.Long(jni.U64ToWire(v)), nil
		}
	case float32:
		if ty.GoType() == "float32" {
			return jni.Float(v), nil
		}
	case float64:
		if ty.GoType() == "float64" {
			return jni.Double(v), nil
		}
	}
	return jni.Value{}, mismatch(ty, v)
}

// fromWireValue mirrors fromWire for a converted result.
func fromWireValue(ty callexpr.Type, v jni.Value) (any, error) {
	if ty.IsObject() {
		return v.L()
	}
	switch ty.Primitive() {
	case callexpr.JavaBoolean:
		z, err := v.Z()
		return jni.WireToBool(z), err
	case callexpr.JavaChar:
		c, err := v.C()
		if fromWireFunc(ty) == "DecodeChar" {
			return jni.DecodeChar(c), err
		}
		return c, err
	case callexpr.JavaByte:
		b, err := v.B()
		if fromWireFunc(ty) != "" {
			return jni.WireToU8(b), err
		}
		return b, err
	case callexpr.JavaShort:
		s, err := v.S()
		if fromWireFunc(ty) != "" {
			return jni.WireToU16(s), err
		}
		return s, err
	case callexpr.JavaInt:
		i, err := v.I()
		if fromWireFunc(ty) != "" {
			return jni.WireToU32(i), err
		}
		return i, err
	case callexpr.JavaLong:
		j, err := v.J()
		if fromWireFunc(ty) != "" {
			return jni.WireToU64(j), err
		}
		return j, err
	case callexpr.JavaFloat:
		return v.F()
	case callexpr.JavaDouble:
		return v.D()
	}
	return nil, nil
}
