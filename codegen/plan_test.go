package codegen

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/jnicall/callexpr"
)

func lower(t *testing.T, src string) *Plan {
	t.Helper()
	call, err := callexpr.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return Lower(call)
}

func TestLowerReturnOrder(t *testing.T) {
	tests := []struct {
		ret  string
		want []OpKind
	}{
		{"void", []OpKind{OpInvoke, OpConvert, OpReturn}},
		{"int", []OpKind{OpInvoke, OpConvert, OpReturn}},
		{"java.lang.String", []OpKind{OpInvoke, OpConvert, OpNullCheck, OpReturn}},
		{"Option<java.lang.String>", []OpKind{OpInvoke, OpConvert, OpOptionWrap, OpReturn}},
		{"Result<void, String>", []OpKind{OpInvoke, OpConvert, OpExceptionCheck, OpReturn}},
		{"Result<int, String>", []OpKind{OpInvoke, OpConvert, OpExceptionCheck, OpReturn}},
		{"Result<java.lang.String, String>", []OpKind{OpInvoke, OpConvert, OpNullCheck, OpExceptionCheck, OpReturn}},
		{"Result<Option<java.lang.String>, String>", []OpKind{OpInvoke, OpConvert, OpOptionWrap, OpExceptionCheck, OpReturn}},
	}

	for _, tt := range tests {
		t.Run(tt.ret, func(t *testing.T) {
			p := lower(t, "obj.m() -> "+tt.ret)
			if got := p.Kinds(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Kinds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLowerObjectArrayLiteral(t *testing.T) {
	p := lower(t, "obj.m([java.lang.String]([a, b, c])) -> void")

	if got := p.Count(OpNewObjectArray); got != 1 {
		t.Fatalf("Count(OpNewObjectArray) = %d, want 1", got)
	}
	if p.Ops[0].Kind != OpNewObjectArray || p.Ops[0].Len != 3 {
		t.Errorf("Ops[0] = %v len %d, want new-object-array len 3", p.Ops[0].Kind, p.Ops[0].Len)
	}
	if got := p.Count(OpSetObjectElement); got != 3 {
		t.Fatalf("Count(OpSetObjectElement) = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		op := p.Ops[1+i]
		if op.Kind != OpSetObjectElement || op.Index != i {
			t.Errorf("Ops[%d] = %v index %d, want set-object-element index %d", 1+i, op.Kind, op.Index, i)
		}
	}
	if p.Args[0].Var != "jniArg0" {
		t.Errorf("Args[0].Var = %q, want %q", p.Args[0].Var, "jniArg0")
	}
}

func TestLowerPrimitiveArrayLiteral(t *testing.T) {
	p := lower(t, "obj.multiArg(boolean(true), [int]([1, 2])) -> void")

	want := []OpKind{OpNewPrimitiveArray, OpFillPrimitiveArray, OpInvoke, OpConvert, OpReturn}
	if got := p.Kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Kinds() = %v, want %v", got, want)
	}
	if p.Ops[0].Param != 1 || p.Ops[0].Len != 2 {
		t.Errorf("Ops[0] param %d len %d, want param 1 len 2", p.Ops[0].Param, p.Ops[0].Len)
	}
	if p.Signature != "(Z[I)V" {
		t.Errorf("Signature = %q, want %q", p.Signature, "(Z[I)V")
	}
	if p.Args[0].Var != "" {
		t.Errorf("Args[0].Var = %q, want empty", p.Args[0].Var)
	}
}

func TestLowerEmptyArrayLiteral(t *testing.T) {
	p := lower(t, "obj.m([int]([]), [java.lang.Object]([])) -> void")
	want := []OpKind{OpNewPrimitiveArray, OpNewObjectArray, OpInvoke, OpConvert, OpReturn}
	if got := p.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestLowerPrebuiltArrayHasNoArrayOps(t *testing.T) {
	p := lower(t, "obj.m([int](xs), [java.lang.String](names)) -> void")
	want := []OpKind{OpInvoke, OpConvert, OpReturn}
	if got := p.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
	if p.Signature != "([I[Ljava/lang/String;)V" {
		t.Errorf("Signature = %q", p.Signature)
	}
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		ret   string
		shape Shape
		arity int
	}{
		{"void", Shape{}, 0},
		{"u64", Shape{Value: true}, 1},
		{"Option<me.Obj>", Shape{Value: true, Optional: true}, 2},
		{"Result<void, String>", Shape{Fallible: true}, 1},
		{"Result<f32, String>", Shape{Value: true, Fallible: true}, 2},
		{"Result<Option<me.Obj>, String>", Shape{Value: true, Optional: true, Fallible: true}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.ret, func(t *testing.T) {
			ret, err := callexpr.ParseReturn(tt.ret)
			if err != nil {
				t.Fatal(err)
			}
			got := ShapeOf(ret)
			if got != tt.shape {
				t.Errorf("ShapeOf = %+v, want %+v", got, tt.shape)
			}
			if got.Arity() != tt.arity {
				t.Errorf("Arity() = %d, want %d", got.Arity(), tt.arity)
			}
		})
	}
}

func TestPlanString(t *testing.T) {
	p := lower(t, "static me.Util::join([java.lang.String]([a, b])) -> Option<java.lang.String>")
	out := p.String()
	for _, want := range []string{
		"join ([Ljava/lang/String;)Ljava/lang/String;",
		"new-object-array java.lang.String[2] -> jniArg0",
		"set-object-element jniArg0[1] = b",
		"invoke me.Util.join",
		"option-wrap java.lang.String",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}
