package jni

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Booleans travel as jboolean, an unsigned byte holding 0 or 1.

func BoolToWire(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func WireToBool(v uint8) bool {
	return v != 0
}

// EncodeChar converts r to a single UTF-16 code unit. Runes outside the
// Basic Multilingual Plane and invalid runes become U+FFFD.
func EncodeChar(r rune) uint16 {
	if r < 0 || r > 0xFFFF || utf16.IsSurrogate(r) {
		return utf8.RuneError
	}
	return uint16(r)
}

// DecodeChar reads a Java char as a lone UTF-16 code unit. An unpaired
// surrogate decodes to U+FFFD.
func DecodeChar(c uint16) rune {
	r := rune(c)
	if utf16.IsSurrogate(r) {
		return utf8.RuneError
	}
	return r
}

// Java has no unsigned primitives; unsigned host values travel as the
// signed type of the same width with the same bits.

func U8ToWire(v uint8) int8 { return int8(v) }
func WireToU8(v int8) uint8 { return uint8(v) }
func U16ToWire(v uint16) int16 { return int16(v) }
func WireToU16(v int16) uint16 { return uint16(v) }
func U32ToWire(v uint32) int32 { return int32(v) }
func WireToU32(v int32) uint32 { return uint32(v) }
func U64ToWire(v uint64) int64 { return int64(v) }
func WireToU64(v int64) uint64 { return uint64(v) }
