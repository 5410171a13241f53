package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unicode/utf16"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, n)
}

const (
	constantUtf8               = 1
	constantInteger            = 3
	constantFloat              = 4
	constantLong               = 5
	constantDouble             = 6
	constantClass              = 7
	constantString             = 8
	constantFieldref           = 9
	constantMethodref          = 10
	constantInterfaceMethodref = 11
	constantNameAndType        = 12
	constantMethodHandle       = 15
	constantMethodType         = 16
	constantDynamic            = 17
	constantInvokeDynamic      = 18
	constantModule             = 19
	constantPackage            = 20
)

// constantSizes holds the payload size of the entries that are skipped.
var constantSizes = map[uint8]int64{
	constantInteger:            4,
	constantFloat:              4,
	constantLong:               8,
	constantDouble:             8,
	constantString:             2,
	constantFieldref:           4,
	constantMethodref:          4,
	constantInterfaceMethodref: 4,
	constantNameAndType:        4,
	constantMethodHandle:       3,
	constantMethodType:         2,
	constantDynamic:            4,
	constantInvokeDynamic:      4,
	constantModule:             2,
	constantPackage:            2,
}

// constantPool keeps the only entries method listing needs: UTF-8 strings
// and class references. Index 0 is unused, as in the file.
type constantPool struct {
	utf8    map[uint16]string
	classes map[uint16]uint16
}

func (cp *constantPool) string(index uint16) (string, error) {
	s, ok := cp.utf8[index]
	if !ok {
		return "", fmt.Errorf("constant %d is not a UTF-8 string", index)
	}
	return s, nil
}

func (cp *constantPool) className(index uint16) (string, error) {
	name, ok := cp.classes[index]
	if !ok {
		return "", fmt.Errorf("constant %d is not a class", index)
	}
	return cp.string(name)
}

func ParseFile(path string) (*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(rd io.Reader) (*Class, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	c := &Class{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("read version: %w", r.err)
	}

	cp, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	c.AccessFlags = AccessFlags(r.readU2())
	thisClass := r.readU2()
	superClass := r.readU2()
	interfacesCount := r.readU2()
	r.skip(2 * int64(interfacesCount))
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}
	if c.Name, err = cp.className(thisClass); err != nil {
		return nil, fmt.Errorf("this class: %w", err)
	}
	if superClass != 0 {
		if c.Super, err = cp.className(superClass); err != nil {
			return nil, fmt.Errorf("super class: %w", err)
		}
	}

	fieldsCount := r.readU2()
	for i := uint16(0); i < fieldsCount; i++ {
		r.skip(6)
		skipAttributes(r)
	}
	if r.err != nil {
		return nil, fmt.Errorf("read fields: %w", r.err)
	}

	methodsCount := r.readU2()
	c.Methods = make([]Method, 0, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		m, err := readMethod(r, cp)
		if err != nil {
			return nil, fmt.Errorf("read method %d: %w", i, err)
		}
		c.Methods = append(c.Methods, m)
	}

	return c, nil
}

func readConstantPool(r *reader) (*constantPool, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	cp := &constantPool{utf8: map[uint16]string{}, classes: map[uint16]uint16{}}
	for i := uint16(1); i < count; i++ {
		tag := r.readU1()
		switch tag {
		case constantUtf8:
			length := r.readU2()
			cp.utf8[i] = decodeModifiedUtf8(r.readBytes(int(length)))
		case constantClass:
			cp.classes[i] = r.readU2()
		default:
			size, ok := constantSizes[tag]
			if !ok {
				if r.err == nil {
					return nil, fmt.Errorf("constant pool entry %d: unknown tag %d", i, tag)
				}
				break
			}
			r.skip(size)
			// longs and doubles take two slots
			if tag == constantLong || tag == constantDouble {
				i++
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, r.err)
		}
	}
	return cp, nil
}

func readMethod(r *reader, cp *constantPool) (Method, error) {
	flags := AccessFlags(r.readU2())
	nameIndex := r.readU2()
	descIndex := r.readU2()
	skipAttributes(r)
	if r.err != nil {
		return Method{}, r.err
	}
	name, err := cp.string(nameIndex)
	if err != nil {
		return Method{}, err
	}
	desc, err := cp.string(descIndex)
	if err != nil {
		return Method{}, err
	}
	return Method{AccessFlags: flags, Name: name, Descriptor: desc}, nil
}

func skipAttributes(r *reader) {
	count := r.readU2()
	for i := uint16(0); i < count; i++ {
		r.skip(2)
		length := r.readU4()
		r.skip(int64(length))
	}
}

// decodeModifiedUtf8 decodes the JVM's string encoding: NUL is two bytes
// and supplementary characters are stored as encoded surrogate pairs.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, 0xFFFD)
			i++
		}
	}
	return string(utf16.Decode(units))
}
