package rewrite

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Mangle escapes a JNI name component: / and . separate components,
// _ ; and [ get the _1 _2 _3 escapes and everything else that is not
// ASCII alphanumeric becomes _0xxxx, one per UTF-16 unit.
func Mangle(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '.':
			sb.WriteByte('_')
		case r == '_':
			sb.WriteString("_1")
		case r == ';':
			sb.WriteString("_2")
		case r == '[':
			sb.WriteString("_3")
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			sb.WriteRune(r)
		default:
			for _, unit := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(&sb, "_0%04x", unit)
			}
		}
	}
	return sb.String()
}

// ExportName is the symbol the JVM looks up for the native method fn of
// class in package pkg, e.g. Java_me_author_Widget_draw.
func ExportName(pkg, class, fn string) string {
	qualified := class
	if pkg != "" {
		qualified = pkg + "." + class
	}
	return "Java_" + Mangle(qualified) + "_" + Mangle(fn)
}

// OverloadedExportName is the long symbol for an overloaded native method:
// ExportName followed by __ and the mangled argument descriptor.
func OverloadedExportName(pkg, class, fn, desc string) string {
	args := desc
	if end := strings.IndexByte(desc, ')'); strings.HasPrefix(desc, "(") && end > 0 {
		args = desc[1:end]
	}
	return ExportName(pkg, class, fn) + "__" + Mangle(args)
}
