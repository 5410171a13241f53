package jni

import (
	"fmt"
	"math"
)

// Kind is the uppercase signature letter of a wire value.
type Kind byte

const (
	KindVoid    Kind = 'V'
	KindBoolean Kind = 'Z'
	KindByte    Kind = 'B'
	KindChar    Kind = 'C'
	KindShort   Kind = 'S'
	KindInt     Kind = 'I'
	KindLong    Kind = 'J'
	KindFloat   Kind = 'F'
	KindDouble  Kind = 'D'
	KindObject  Kind = 'L'
)

var kindNames = map[Kind]string{
	KindVoid:    "void",
	KindBoolean: "boolean",
	KindByte:    "byte",
	KindChar:    "char",
	KindShort:   "short",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindObject:  "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// Value is a single argument or result as it crosses the bridge.
type Value struct {
	kind Kind
	bits uint64
	ref  Object
}

func Boolean(v uint8) Value { return Value{kind: KindBoolean, bits: uint64(v)} }
func Byte(v int8) Value { return Value{kind: KindByte, bits: uint64(uint8(v))} }
func Char(v uint16) Value { return Value{kind: KindChar, bits: uint64(v)} }
func Short(v int16) Value { return Value{kind: KindShort, bits: uint64(uint16(v))} }
func Int(v int32) Value { return Value{kind: KindInt, bits: uint64(uint32(v))} }
func Long(v int64) Value { return Value{kind: KindLong, bits: uint64(v)} }
func Float(v float32) Value { return Value{kind: KindFloat, bits: uint64(math.Float32bits(v))} }
func Double(v float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(v)} }
func Ref(v Object) Value { return Value{kind: KindObject, ref: v} }
func Void() Value { return Value{kind: KindVoid} }

func (v Value) Kind() Kind { return v.kind }

// TypeMismatchError is returned when a result is read as a different kind
// than the one the bridge produced.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

func (v Value) expect(k Kind) error {
	if v.kind != k {
		return &TypeMismatchError{Want: k, Got: v.kind}
	}
	return nil
}

func (v Value) Z() (uint8, error) {
	if err := v.expect(KindBoolean); err != nil {
		return 0, err
	}
	return uint8(v.bits), nil
}

func (v Value) B() (int8, error) {
	if err := v.expect(KindByte); err != nil {
		return 0, err
	}
	return int8(v.bits), nil
}

func (v Value) C() (uint16, error) {
	if err := v.expect(KindChar); err != nil {
		return 0, err
	}
	return uint16(v.bits), nil
}

func (v Value) S() (int16, error) {
	if err := v.expect(KindShort); err != nil {
		return 0, err
	}
	return int16(v.bits), nil
}

func (v Value) I() (int32, error) {
	if err := v.expect(KindInt); err != nil {
		return 0, err
	}
	return int32(v.bits), nil
}

func (v Value) J() (int64, error) {
	if err := v.expect(KindLong); err != nil {
		return 0, err
	}
	return int64(v.bits), nil
}

func (v Value) F() (float32, error) {
	if err := v.expect(KindFloat); err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v.bits)), nil
}

func (v Value) D() (float64, error) {
	if err := v.expect(KindDouble); err != nil {
		return 0, err
	}
	return math.Float64frombits(v.bits), nil
}

func (v Value) L() (Object, error) {
	if err := v.expect(KindObject); err != nil {
		return nil, err
	}
	return v.ref, nil
}

func (v Value) V() error {
	return v.expect(KindVoid)
}

func (v Value) String() string {
	switch v.kind {
	case KindVoid:
		return "void"
	case KindObject:
		if IsNull(v.ref) {
			return "null"
		}
		return fmt.Sprintf("object(%v)", v.ref)
	case KindFloat:
		f, _ := v.F()
		return fmt.Sprintf("float(%g)", f)
	case KindDouble:
		d, _ := v.D()
		return fmt.Sprintf("double(%g)", d)
	case KindBoolean, KindChar:
		return fmt.Sprintf("%s(%d)", v.kind, v.bits)
	}
	return fmt.Sprintf("%s(%d)", v.kind, v.signed())
}

func (v Value) signed() int64 {
	switch v.kind {
	case KindByte:
		return int64(int8(v.bits))
	case KindShort:
		return int64(int16(v.bits))
	case KindInt:
		return int64(int32(v.bits))
	}
	return int64(v.bits)
}
