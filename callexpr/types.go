package callexpr

import "strings"

// JavaPrimitive is a Java primitive keyword. Void is only legal as a return type.
type JavaPrimitive int

const (
	JavaVoid JavaPrimitive = iota
	JavaByte
	JavaBoolean
	JavaChar
	JavaShort
	JavaInt
	JavaLong
	JavaFloat
	JavaDouble
)

var javaPrimitives = []struct {
	name    string
	sigChar byte
	goType  string
}{
	JavaVoid:    {"void", 'v', ""},
	JavaByte:    {"byte", 'b', "int8"},
	JavaBoolean: {"boolean", 'z', "bool"},
	JavaChar:    {"char", 'c', "uint16"},
	JavaShort:   {"short", 's', "int16"},
	JavaInt:     {"int", 'i', "int32"},
	JavaLong:    {"long", 'j', "int64"},
	JavaFloat:   {"float", 'f', "float32"},
	JavaDouble:  {"double", 'd', "float64"},
}

func (j JavaPrimitive) String() string { return javaPrimitives[j].name }

// SigChar is the lowercase discriminant used to pick the bridge conversion.
func (j JavaPrimitive) SigChar() byte { return javaPrimitives[j].sigChar }

// Signature is the uppercase signature letter.
func (j JavaPrimitive) Signature() string {
	return strings.ToUpper(string(j.SigChar()))
}

// GoType is the Go type of the value as it crosses the bridge.
func (j JavaPrimitive) GoType() string { return javaPrimitives[j].goType }

// HostPrimitive is a host numeric keyword (bool, char, u8 ... f64).
type HostPrimitive int

const (
	HostBool HostPrimitive = iota
	HostChar
	HostU8
	HostI8
	HostU16
	HostI16
	HostU32
	HostI32
	HostU64
	HostI64
	HostF32
	HostF64
)

var hostPrimitives = []struct {
	name   string
	java   JavaPrimitive
	goType string
}{
	HostBool: {"bool", JavaBoolean, "bool"},
	HostChar: {"char", JavaChar, "rune"},
	HostU8:   {"u8", JavaByte, "uint8"},
	HostI8:   {"i8", JavaByte, "int8"},
	HostU16:  {"u16", JavaShort, "uint16"},
	HostI16:  {"i16", JavaShort, "int16"},
	HostU32:  {"u32", JavaInt, "uint32"},
	HostI32:  {"i32", JavaInt, "int32"},
	HostU64:  {"u64", JavaLong, "uint64"},
	HostI64:  {"i64", JavaLong, "int64"},
	HostF32:  {"f32", JavaFloat, "float32"},
	HostF64:  {"f64", JavaDouble, "float64"},
}

func (h HostPrimitive) String() string { return hostPrimitives[h].name }

// Java is the Java primitive the host kind travels as.
func (h HostPrimitive) Java() JavaPrimitive { return hostPrimitives[h].java }

// GoType is the Go type callers pass and receive.
func (h HostPrimitive) GoType() string { return hostPrimitives[h].goType }

// IsUnsigned reports whether values need a bit reinterpretation into the
// signed Java type of the same size.
func (h HostPrimitive) IsUnsigned() bool {
	switch h {
	case HostU8, HostU16, HostU32, HostU64:
		return true
	}
	return false
}

func lookupHostPrimitive(name string) (HostPrimitive, bool) {
	for i, p := range hostPrimitives {
		if p.name == name {
			return HostPrimitive(i), true
		}
	}
	return 0, false
}

func lookupJavaPrimitive(name string) (JavaPrimitive, bool) {
	for i, p := range javaPrimitives {
		if p.name == name {
			return JavaPrimitive(i), true
		}
	}
	return 0, false
}

// Keywords lists every primitive type keyword, Java first. char is listed
// once.
func Keywords() []string {
	var names []string
	for _, p := range javaPrimitives {
		names = append(names, p.name)
	}
	for _, p := range hostPrimitives {
		if _, dup := lookupJavaPrimitive(p.name); !dup {
			names = append(names, p.name)
		}
	}
	return names
}

type TypeKind int

const (
	TypeJava TypeKind = iota
	TypeHost
	TypeObject
)

// Type is a parameter or return type: a Java primitive, a host primitive,
// or an object named by its class path.
type Type struct {
	Kind  TypeKind
	Java  JavaPrimitive
	Host  HostPrimitive
	Class *ClassPath
	Span  Span
}

func (t Type) IsObject() bool { return t.Kind == TypeObject }

func (t Type) IsVoid() bool { return t.Kind == TypeJava && t.Java == JavaVoid }

// Primitive returns the Java primitive a non-object type travels as.
func (t Type) Primitive() JavaPrimitive {
	if t.Kind == TypeHost {
		return t.Host.Java()
	}
	return t.Java
}

func (t Type) SigChar() byte {
	if t.IsObject() {
		return 'l'
	}
	return t.Primitive().SigChar()
}

func (t Type) Signature() string {
	if t.IsObject() {
		return t.Class.Signature()
	}
	return t.Primitive().Signature()
}

// GoType is the Go type seen by the code around the expansion. Objects are
// reported as the empty string; the generator substitutes the bridge's
// object type.
func (t Type) GoType() string {
	switch t.Kind {
	case TypeHost:
		return t.Host.GoType()
	case TypeJava:
		return t.Java.GoType()
	}
	return ""
}

// String is the Java-side name: the Java primitive (host kinds are shown
// as the primitive they travel as) or the dotted class path.
func (t Type) String() string {
	if t.IsObject() {
		return t.Class.String()
	}
	return t.Primitive().String()
}

// Keyword is the spelling the type was written with.
func (t Type) Keyword() string {
	switch t.Kind {
	case TypeHost:
		return t.Host.String()
	case TypeJava:
		return t.Java.String()
	}
	return t.Class.String()
}

func ObjectType(class *ClassPath) Type {
	return Type{Kind: TypeObject, Class: class, Span: class.Span}
}

// ParseType parses src as a single type.
func ParseType(src string, opts ...Option) (Type, error) {
	p := newParser(src, opts...)
	ty, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if err := p.expectEOF("type"); err != nil {
		return Type{}, err
	}
	return ty, nil
}

// parseType tries the host vocabulary first, then the Java vocabulary, and
// falls back to a class path. A keyword present in both vocabularies (char)
// therefore always takes its host reading.
func (p *Parser) parseType() (Type, error) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return Type{}, p.syntaxError("expected a type: a primitive keyword or a Java class path", TokenIdent)
	}
	if host, ok := lookupHostPrimitive(tok.Literal); ok {
		p.advance()
		return Type{Kind: TypeHost, Host: host, Span: tok.Span}, nil
	}
	if java, ok := lookupJavaPrimitive(tok.Literal); ok {
		p.advance()
		return Type{Kind: TypeJava, Java: java, Span: tok.Span}, nil
	}
	class, err := p.parseClassPath()
	if err != nil {
		return Type{}, err
	}
	return ObjectType(class), nil
}
