// Package jnitest provides an in-memory jni.Env that records every bridge
// operation, for testing code that drives the bridge.
package jnitest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dhamidi/jnicall/jni"
)

// Ref is a fake object reference. The zero Ref with Null set is Java null.
type Ref struct {
	Name string
	Null bool
}

func (r *Ref) IsNull() bool { return r == nil || r.Null }

func (r *Ref) String() string {
	if r.IsNull() {
		return "null"
	}
	return r.Name
}

// Null is a non-nil reference that reports itself as Java null.
var Null = &Ref{Null: true}

// Array is the object returned by the New*Array methods.
type Array struct {
	Kind     jni.Kind
	Class    string
	Elements []any
}

func (a *Array) IsNull() bool { return a == nil }

// Call is one recorded bridge operation.
type Call struct {
	Op    string
	Class string
	Name  string
	Sig   string
	Args  []jni.Value
	Index int
	Len   int
}

func (c Call) String() string {
	switch c.Op {
	case "CallStaticMethod":
		return fmt.Sprintf("%s %s.%s%s", c.Op, c.Class, c.Name, c.Sig)
	case "CallMethod":
		return fmt.Sprintf("%s %s%s", c.Op, c.Name, c.Sig)
	case "SetObjectArrayElement":
		return fmt.Sprintf("%s [%d]", c.Op, c.Index)
	}
	if strings.HasPrefix(c.Op, "New") {
		return fmt.Sprintf("%s(%d)", c.Op, c.Len)
	}
	return c.Op
}

// Env records bridge calls and answers method calls with Result.
type Env struct {
	mu sync.Mutex

	// Result is returned from every method call.
	Result jni.Value
	// Exception, when set, is pending after every method call.
	Exception *jni.Exception
	// Fail makes the named operation return an error.
	Fail map[string]error

	Calls []Call

	pending *jni.Exception
}

var _ jni.Env = (*Env)(nil)

func NewEnv(result jni.Value) *Env {
	return &Env{Result: result, Fail: map[string]error{}}
}

// Ops returns the recorded operation names in order.
func (e *Env) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := make([]string, len(e.Calls))
	for i, c := range e.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how often op was recorded.
func (e *Env) Count(op string) int {
	n := 0
	for _, got := range e.Ops() {
		if got == op {
			n++
		}
	}
	return n
}

func (e *Env) record(c Call) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, c)
	if err, ok := e.Fail[c.Op]; ok {
		return err
	}
	return nil
}

func (e *Env) invoke(c Call) (jni.Value, error) {
	if err := e.record(c); err != nil {
		return jni.Value{}, err
	}
	e.mu.Lock()
	e.pending = e.Exception
	e.mu.Unlock()
	return e.Result, nil
}

func (e *Env) CallStaticMethod(class, name, sig string, args []jni.Value) (jni.Value, error) {
	return e.invoke(Call{Op: "CallStaticMethod", Class: class, Name: name, Sig: sig, Args: args})
}

func (e *Env) CallMethod(obj jni.Object, name, sig string, args []jni.Value) (jni.Value, error) {
	return e.invoke(Call{Op: "CallMethod", Name: name, Sig: sig, Args: args})
}

func (e *Env) CatchException() error {
	_ = e.record(Call{Op: "CatchException"})
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil
	}
	exc := e.pending
	e.pending = nil
	return exc
}

func (e *Env) newArray(op string, kind jni.Kind, n int) (jni.Object, error) {
	if err := e.record(Call{Op: op, Len: n}); err != nil {
		return nil, err
	}
	return &Array{Kind: kind, Elements: make([]any, n)}, nil
}

func (e *Env) NewBooleanArray(n int) (jni.Object, error) {
	return e.newArray("NewBooleanArray", jni.KindBoolean, n)
}

func (e *Env) NewByteArray(n int) (jni.Object, error) {
	return e.newArray("NewByteArray", jni.KindByte, n)
}

func (e *Env) NewCharArray(n int) (jni.Object, error) {
	return e.newArray("NewCharArray", jni.KindChar, n)
}

func (e *Env) NewShortArray(n int) (jni.Object, error) {
	return e.newArray("NewShortArray", jni.KindShort, n)
}

func (e *Env) NewIntArray(n int) (jni.Object, error) {
	return e.newArray("NewIntArray", jni.KindInt, n)
}

func (e *Env) NewLongArray(n int) (jni.Object, error) {
	return e.newArray("NewLongArray", jni.KindLong, n)
}

func (e *Env) NewFloatArray(n int) (jni.Object, error) {
	return e.newArray("NewFloatArray", jni.KindFloat, n)
}

func (e *Env) NewDoubleArray(n int) (jni.Object, error) {
	return e.newArray("NewDoubleArray", jni.KindDouble, n)
}

func setRegion[T any](e *Env, op string, arr jni.Object, start int, buf []T) error {
	if err := e.record(Call{Op: op, Index: start, Len: len(buf)}); err != nil {
		return err
	}
	a, ok := arr.(*Array)
	if !ok {
		return fmt.Errorf("%s: not an array: %v", op, arr)
	}
	if start < 0 || start+len(buf) > len(a.Elements) {
		return fmt.Errorf("%s: region [%d, %d) out of bounds for length %d", op, start, start+len(buf), len(a.Elements))
	}
	for i, v := range buf {
		a.Elements[start+i] = v
	}
	return nil
}

func (e *Env) SetBooleanArrayRegion(arr jni.Object, start int, buf []uint8) error {
	return setRegion(e, "SetBooleanArrayRegion", arr, start, buf)
}

func (e *Env) SetByteArrayRegion(arr jni.Object, start int, buf []int8) error {
	return setRegion(e, "SetByteArrayRegion", arr, start, buf)
}

func (e *Env) SetCharArrayRegion(arr jni.Object, start int, buf []uint16) error {
	return setRegion(e, "SetCharArrayRegion", arr, start, buf)
}

func (e *Env) SetShortArrayRegion(arr jni.Object, start int, buf []int16) error {
	return setRegion(e, "SetShortArrayRegion", arr, start, buf)
}

func (e *Env) SetIntArrayRegion(arr jni.Object, start int, buf []int32) error {
	return setRegion(e, "SetIntArrayRegion", arr, start, buf)
}

func (e *Env) SetLongArrayRegion(arr jni.Object, start int, buf []int64) error {
	return setRegion(e, "SetLongArrayRegion", arr, start, buf)
}

func (e *Env) SetFloatArrayRegion(arr jni.Object, start int, buf []float32) error {
	return setRegion(e, "SetFloatArrayRegion", arr, start, buf)
}

func (e *Env) SetDoubleArrayRegion(arr jni.Object, start int, buf []float64) error {
	return setRegion(e, "SetDoubleArrayRegion", arr, start, buf)
}

func (e *Env) NewObjectArray(n int, class string, init jni.Object) (jni.Object, error) {
	if err := e.record(Call{Op: "NewObjectArray", Class: class, Len: n}); err != nil {
		return nil, err
	}
	a := &Array{Kind: jni.KindObject, Class: class, Elements: make([]any, n)}
	for i := range a.Elements {
		a.Elements[i] = init
	}
	return a, nil
}

func (e *Env) SetObjectArrayElement(arr jni.Object, index int, v jni.Object) error {
	if err := e.record(Call{Op: "SetObjectArrayElement", Index: index}); err != nil {
		return err
	}
	a, ok := arr.(*Array)
	if !ok {
		return fmt.Errorf("SetObjectArrayElement: not an array: %v", arr)
	}
	if index < 0 || index >= len(a.Elements) {
		return fmt.Errorf("SetObjectArrayElement: index %d out of bounds for length %d", index, len(a.Elements))
	}
	a.Elements[index] = v
	return nil
}
