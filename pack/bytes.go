package pack

import "github.com/wippyai/binbin/endian"

// Bytes is copied verbatim. Its length is the length of the slice, so it
// cannot be used as a deferred value.
type Bytes []byte

func (b Bytes) PackLen() int                         { return len(b) }
func (b Bytes) PackInto(buf []byte, _ endian.Endian) { copy(buf, b) }

// CString is written followed by a single 0 terminator.
// Interior NUL bytes are written as-is.
type CString string

func (s CString) PackLen() int { return len(s) + 1 }

func (s CString) PackInto(buf []byte, _ endian.Endian) {
	n := copy(buf, s)
	buf[n] = 0
}
