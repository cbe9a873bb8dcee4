package pack

import "github.com/wippyai/binbin/endian"

// LEB128 integers are byte-order independent; PackInto ignores the endian
// argument.

// ULEB128 is an unsigned LEB128 integer using the fewest bytes.
type ULEB128 uint64

func (v ULEB128) PackLen() int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

func (v ULEB128) PackInto(buf []byte, _ endian.Endian) {
	i := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[i] = b
		i++
		if v == 0 {
			return
		}
	}
}

// SLEB128 is a signed LEB128 integer using the fewest bytes.
type SLEB128 int64

func (v SLEB128) PackLen() int {
	n := 0
	v.each(func(byte) { n++ })
	return n
}

func (v SLEB128) PackInto(buf []byte, _ endian.Endian) {
	i := 0
	v.each(func(b byte) {
		buf[i] = b
		i++
	})
}

func (v SLEB128) each(emit func(byte)) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		emit(b)
	}
}

// PaddedULEB32 is an unsigned LEB128 integer always written in five bytes,
// the longest encoding of a 32-bit value. Decoders accept the redundant
// continuation bytes, so a size or offset can be reserved before it is
// known and patched in place later.
type PaddedULEB32 uint32

// PaddedULEB32Len is the encoded width of PaddedULEB32.
const PaddedULEB32Len = 5

func (PaddedULEB32) PackLen() int  { return PaddedULEB32Len }
func (PaddedULEB32) FixedLen() int { return PaddedULEB32Len }

func (v PaddedULEB32) PackInto(buf []byte, _ endian.Endian) {
	for i := 0; i < PaddedULEB32Len-1; i++ {
		buf[i] = byte(v>>(7*i))&0x7f | 0x80
	}
	buf[PaddedULEB32Len-1] = byte(v >> 28)
}
