// Package classfile reads the method table of compiled Java classes, enough
// to list the native methods a Go library has to export.
package classfile

import "github.com/dhamidi/jnicall/descriptor"

const Magic = 0xCAFEBABE

type AccessFlags uint16

const (
	AccPublic    AccessFlags = 0x0001
	AccPrivate   AccessFlags = 0x0002
	AccProtected AccessFlags = 0x0004
	AccStatic    AccessFlags = 0x0008
	AccFinal     AccessFlags = 0x0010
	AccNative    AccessFlags = 0x0100
	AccAbstract  AccessFlags = 0x0400
)

func (f AccessFlags) IsStatic() bool { return f&AccStatic != 0 }
func (f AccessFlags) IsNative() bool { return f&AccNative != 0 }

type Method struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
}

// Declaration renders the method as Java source, e.g.
// "static native int draw(java.lang.String)".
func (m *Method) Declaration() string {
	decl := m.Name + m.Descriptor
	if parsed, err := descriptor.ParseMethod(m.Descriptor); err == nil {
		decl = parsed.Declaration(m.Name)
	}
	prefix := ""
	if m.AccessFlags.IsStatic() {
		prefix += "static "
	}
	if m.AccessFlags.IsNative() {
		prefix += "native "
	}
	return prefix + decl
}

type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  AccessFlags

	// Name is the internal form, me/author/Widget$Inner.
	Name    string
	Super   string
	Methods []Method
}

func (c *Class) SourceName() string {
	return descriptor.InternalToSourceName(c.Name)
}

func (c *Class) Natives() []Method {
	var natives []Method
	for _, m := range c.Methods {
		if m.AccessFlags.IsNative() {
			natives = append(natives, m)
		}
	}
	return natives
}

// Overloaded reports whether more than one native method is called name.
// Overloaded natives need the long JNI symbol that includes the argument
// signature.
func (c *Class) Overloaded(name string) bool {
	n := 0
	for _, m := range c.Natives() {
		if m.Name == name {
			n++
		}
	}
	return n > 1
}
