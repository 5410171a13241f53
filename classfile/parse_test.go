package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

type classBuilder struct {
	buf bytes.Buffer
}

func (b *classBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *classBuilder) u2(v uint16) { _ = binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) u4(v uint32) { _ = binary.Write(&b.buf, binary.BigEndian, v) }

func (b *classBuilder) utf8(s string) {
	b.u1(constantUtf8)
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
}

func (b *classBuilder) class(name uint16) {
	b.u1(constantClass)
	b.u2(name)
}

// widgetClass is
//
//	public class me.author.Widget$Inner {
//	    int count;
//	    public static native int draw(String s);
//	    void helper() { ... }
//	    native void draw();
//	}
func widgetClass() []byte {
	b := &classBuilder{}
	b.u4(Magic)
	b.u2(0)
	b.u2(65)

	b.u2(13)
	b.utf8("me/author/Widget$Inner") // 1
	b.class(1)                       // 2
	b.utf8("java/lang/Object")       // 3
	b.class(3)                       // 4
	b.utf8("draw")                   // 5
	b.utf8("(Ljava/lang/String;)I")  // 6
	b.utf8("helper")                 // 7
	b.utf8("()V")                    // 8
	b.u1(constantLong)               // 9, 10
	b.u4(0)
	b.u4(42)
	b.utf8("Code")          // 11
	b.u1(constantMethodref) // 12
	b.u2(2)
	b.u2(5)

	b.u2(uint16(AccPublic))
	b.u2(2)
	b.u2(4)
	b.u2(0)

	b.u2(1)
	b.u2(0)
	b.u2(7)
	b.u2(8)
	b.u2(0)

	b.u2(3)
	b.u2(uint16(AccPublic | AccStatic | AccNative))
	b.u2(5)
	b.u2(6)
	b.u2(0)

	b.u2(0)
	b.u2(7)
	b.u2(8)
	b.u2(1)
	b.u2(11)
	b.u4(3)
	b.buf.Write([]byte{0xb1, 0, 0})

	b.u2(uint16(AccNative))
	b.u2(5)
	b.u2(8)
	b.u2(0)

	b.u2(0)
	return b.buf.Bytes()
}

func TestParse(t *testing.T) {
	c, err := Parse(bytes.NewReader(widgetClass()))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	t.Run("names", func(t *testing.T) {
		if c.Name != "me/author/Widget$Inner" {
			t.Errorf("Name = %q, want %q", c.Name, "me/author/Widget$Inner")
		}
		if c.SourceName() != "me.author.Widget.Inner" {
			t.Errorf("SourceName() = %q, want %q", c.SourceName(), "me.author.Widget.Inner")
		}
		if c.Super != "java/lang/Object" {
			t.Errorf("Super = %q, want %q", c.Super, "java/lang/Object")
		}
		if c.MajorVersion != 65 {
			t.Errorf("MajorVersion = %d, want 65", c.MajorVersion)
		}
	})

	t.Run("methods", func(t *testing.T) {
		if len(c.Methods) != 3 {
			t.Fatalf("got %d methods, want 3", len(c.Methods))
		}
		natives := c.Natives()
		if len(natives) != 2 {
			t.Fatalf("got %d natives, want 2", len(natives))
		}
		if natives[0].Descriptor != "(Ljava/lang/String;)I" {
			t.Errorf("Descriptor = %q", natives[0].Descriptor)
		}
		if !c.Overloaded("draw") {
			t.Error("Overloaded(draw) = false, want true")
		}
		if c.Overloaded("helper") {
			t.Error("Overloaded(helper) = true, want false")
		}
	})

	t.Run("declaration", func(t *testing.T) {
		want := "static native int draw(java.lang.String)"
		if got := c.Natives()[0].Declaration(); got != want {
			t.Errorf("Declaration() = %q, want %q", got, want)
		}
	})
}

func TestParseErrors(t *testing.T) {
	valid := widgetClass()
	badMagic := append([]byte{0xCA, 0xFE, 0xBA, 0xBF}, valid[4:]...)
	badTag := append([]byte(nil), valid[:10]...)
	badTag = append(badTag, 2)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"truncated pool", valid[:20]},
		{"truncated methods", valid[:len(valid)-6]},
		{"unknown tag", badTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(bytes.NewReader(tt.data)); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("Widget"), "Widget"},
		{"nul", []byte{0xC0, 0x80}, "\x00"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeModifiedUtf8(tt.in); got != tt.want {
				t.Errorf("decodeModifiedUtf8(% x) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
