// Package descriptor decodes JNI type and method descriptors such as
// (Z[I)V into their Java source form.
package descriptor

import (
	"fmt"
	"strings"
)

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

func (ft *FieldType) IsPrimitive() bool {
	return ft.BaseType != "" && ft.ArrayDepth == 0
}

func (ft *FieldType) IsVoid() bool {
	return ft.BaseType == "void"
}

type Method struct {
	Parameters []FieldType
	Return     FieldType
}

// String renders the descriptor as a Java declaration without a name:
// (Z[I)V becomes "void (boolean, int[])".
func (m *Method) String() string {
	return m.Declaration("")
}

// Declaration renders the descriptor as a Java method declaration.
func (m *Method) Declaration(name string) string {
	var sb strings.Builder
	sb.WriteString(m.Return.String())
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString("(")
	for i := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Parameters[i].String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Error reports the byte offset at which a descriptor stopped making sense.
type Error struct {
	Descriptor string
	Offset     int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("descriptor %q at offset %d: %s", e.Descriptor, e.Offset, e.Message)
}

func ParseField(desc string) (*FieldType, error) {
	ft, n, err := parseFieldType(desc, 0)
	if err != nil {
		return nil, err
	}
	if ft.IsVoid() {
		return nil, &Error{Descriptor: desc, Offset: 0, Message: "void is not a field type"}
	}
	if n != len(desc) {
		return nil, &Error{Descriptor: desc, Offset: n, Message: "trailing characters"}
	}
	return ft, nil
}

func ParseMethod(desc string) (*Method, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, &Error{Descriptor: desc, Offset: 0, Message: "expected '('"}
	}

	m := &Method{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, n, err := parseFieldType(desc, i)
		if err != nil {
			return nil, err
		}
		if ft.IsVoid() {
			return nil, &Error{Descriptor: desc, Offset: i, Message: "void parameter"}
		}
		m.Parameters = append(m.Parameters, *ft)
		i += n
	}
	if i >= len(desc) {
		return nil, &Error{Descriptor: desc, Offset: i, Message: "expected ')'"}
	}
	i++

	ret, n, err := parseFieldType(desc, i)
	if err != nil {
		return nil, err
	}
	if ret.IsVoid() && ret.IsArray() {
		return nil, &Error{Descriptor: desc, Offset: i, Message: "array of void"}
	}
	if i+n != len(desc) {
		return nil, &Error{Descriptor: desc, Offset: i + n, Message: "trailing characters"}
	}
	m.Return = *ret
	return m, nil
}

func parseFieldType(desc string, start int) (*FieldType, int, error) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0, &Error{Descriptor: desc, Offset: i, Message: "unexpected end"}
	}

	if base, ok := baseTypes[desc[i]]; ok {
		ft.BaseType = base
		return ft, i - start + 1, nil
	}
	if desc[i] != 'L' {
		return nil, 0, &Error{Descriptor: desc, Offset: i, Message: fmt.Sprintf("unknown type %q", desc[i])}
	}
	semicolon := strings.IndexByte(desc[i:], ';')
	if semicolon == -1 {
		return nil, 0, &Error{Descriptor: desc, Offset: i, Message: "unterminated class name"}
	}
	if semicolon == 1 {
		return nil, 0, &Error{Descriptor: desc, Offset: i, Message: "empty class name"}
	}
	ft.ClassName = desc[i+1 : i+semicolon]
	return ft, i - start + semicolon + 1, nil
}

// InternalToSourceName turns java/util/Map$Entry into java.util.Map.Entry.
func InternalToSourceName(name string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(name)
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
