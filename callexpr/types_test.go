package callexpr

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		kind    TypeKind
		sig     string
		goType  string
		display string
	}{
		{"void", TypeJava, "V", "", "void"},
		{"byte", TypeJava, "B", "int8", "byte"},
		{"boolean", TypeJava, "Z", "bool", "boolean"},
		{"short", TypeJava, "S", "int16", "short"},
		{"int", TypeJava, "I", "int32", "int"},
		{"long", TypeJava, "J", "int64", "long"},
		{"float", TypeJava, "F", "float32", "float"},
		{"double", TypeJava, "D", "float64", "double"},
		{"bool", TypeHost, "Z", "bool", "boolean"},
		{"char", TypeHost, "C", "rune", "char"},
		{"u8", TypeHost, "B", "uint8", "byte"},
		{"i8", TypeHost, "B", "int8", "byte"},
		{"u16", TypeHost, "S", "uint16", "short"},
		{"i16", TypeHost, "S", "int16", "short"},
		{"u32", TypeHost, "I", "uint32", "int"},
		{"i32", TypeHost, "I", "int32", "int"},
		{"u64", TypeHost, "J", "uint64", "long"},
		{"i64", TypeHost, "J", "int64", "long"},
		{"f32", TypeHost, "F", "float32", "float"},
		{"f64", TypeHost, "D", "float64", "double"},
		{"java.lang.String", TypeObject, "Ljava/lang/String;", "", "java.lang.String"},
		{"java.util.Map$Entry", TypeObject, "Ljava/util/Map$Entry;", "", "java.util.Map.Entry"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ty, err := ParseType(tt.input)
			if err != nil {
				t.Fatalf("ParseType(%q) error: %v", tt.input, err)
			}
			if ty.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", ty.Kind, tt.kind)
			}
			if got := ty.Signature(); got != tt.sig {
				t.Errorf("Signature() = %q, want %q", got, tt.sig)
			}
			if got := ty.GoType(); got != tt.goType {
				t.Errorf("GoType() = %q, want %q", got, tt.goType)
			}
			if got := ty.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
			if got := ty.Keyword(); got != tt.input && ty.Kind != TypeObject {
				t.Errorf("Keyword() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestTypeSigChar(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{"void", 'v'},
		{"bool", 'z'},
		{"u8", 'b'},
		{"char", 'c'},
		{"u16", 's'},
		{"int", 'i'},
		{"u64", 'j'},
		{"f32", 'f'},
		{"double", 'd'},
		{"me.Obj", 'l'},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ty, err := ParseType(tt.input)
			if err != nil {
				t.Fatalf("ParseType(%q) error: %v", tt.input, err)
			}
			if got := ty.SigChar(); got != tt.want {
				t.Errorf("SigChar() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostPrimitiveIsUnsigned(t *testing.T) {
	for _, h := range []HostPrimitive{HostU8, HostU16, HostU32, HostU64} {
		if !h.IsUnsigned() {
			t.Errorf("%s.IsUnsigned() = false, want true", h)
		}
	}
	for _, h := range []HostPrimitive{HostBool, HostChar, HostI8, HostI16, HostI32, HostI64, HostF32, HostF64} {
		if h.IsUnsigned() {
			t.Errorf("%s.IsUnsigned() = true, want false", h)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"", ErrSyntax},
		{"[int]", ErrSyntax},
		{"String", ErrMissingPackage},
		{"int int", ErrSyntax},
		{"java.lang.", ErrTrailingSeparator},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseType(tt.input)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("ParseType(%q) error = %v, want *Error", tt.input, err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", perr.Kind, tt.kind)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	kws := Keywords()
	if len(kws) != 20 {
		t.Errorf("got %d keywords, want 20: %v", len(kws), kws)
	}
	seen := map[string]bool{}
	for _, kw := range kws {
		if seen[kw] {
			t.Errorf("keyword %q listed twice", kw)
		}
		seen[kw] = true
	}
	for _, kw := range []string{"void", "boolean", "bool", "char", "u8", "f64"} {
		if !seen[kw] {
			t.Errorf("keyword %q missing", kw)
		}
	}
}
