package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/jnicall/codegen"
)

func TestEvalLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"obj.size() -> int", []string{"func() int32 {", `jniEnv.CallMethod(obj, "size", "()I", nil)`}},
		{":sig static me.Test::f(boolean(b), [int](xs)) -> void", []string{"(Z[I)V"}},
		{":plan obj.f([java.lang.String]([a, b])) -> void", []string{"new-object-array", "set-object-element", "invoke"}},
		{":trace static me.Test::ping() -> void", []string{"CallStaticMethod me/Test.ping()V", "=> ok"}},
		{":trace obj.twice(int(21)) -> int", []string{"CallMethod twice(I)I", "=> -1"}},
		{":null obj.find(java.lang.String(key)) -> Option<java.lang.Object>", []string{"CallMethod find", "=> absent"}},
		{":null obj.get() -> java.lang.Object", []string{"panic: jnicall: expected object returned by get() to not be null"}},
		{":throw obj.load() -> Result<int, String>", []string{"=> error java.lang.RuntimeException: thrown by load"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out, err := evalLine(tt.line, codegen.Options{})
			if err != nil {
				t.Fatalf("evalLine error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestEvalLineErrors(t *testing.T) {
	if _, err := evalLine(":quit", codegen.Options{}); !errors.Is(err, errQuit) {
		t.Errorf(":quit error = %v, want errQuit", err)
	}
	if _, err := evalLine(":bogus obj.f() -> void", codegen.Options{}); err == nil {
		t.Error(":bogus succeeded, want error")
	}
	if _, err := evalLine("obj.f( -> void", codegen.Options{}); err == nil {
		t.Error("invalid expression succeeded, want error")
	}
}

func TestCompleteKeyword(t *testing.T) {
	got := completeKeyword("obj.f(u")
	want := []string{"obj.f(u8", "obj.f(u16", "obj.f(u32", "obj.f(u64"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("completeKeyword = %v, want %v", got, want)
	}
	if got := completeKeyword("obj.f() -> Res"); len(got) != 1 || got[0] != "obj.f() -> Result" {
		t.Errorf("completeKeyword = %v, want [obj.f() -> Result]", got)
	}
	if got := completeKeyword("obj.f("); got != nil {
		t.Errorf("completeKeyword with empty prefix = %v, want nil", got)
	}
}
