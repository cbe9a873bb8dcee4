// Package membuf provides a growable in-memory medium for the writer.
package membuf

import (
	"errors"
	"io"
)

// Buffer is a byte slice that can be written, read, and seeked like a file.
// Writing past the end grows the buffer; seeking past the end and then
// writing fills the gap with zeros.
type Buffer struct {
	buf []byte
	pos int64
}

// New creates a Buffer over buf positioned at offset 0. Writes overwrite the
// existing contents and grow the buffer once they pass its end.
func New(buf []byte) *Buffer {
	return &Buffer{buf: buf}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the buffer length.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Write writes p at the current position.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.buf)) {
		if end > int64(cap(b.buf)) {
			grown := make([]byte, len(b.buf), max(end, 2*int64(cap(b.buf))))
			copy(grown, b.buf)
			b.buf = grown
		}
		old := int64(len(b.buf))
		b.buf = b.buf[:end]
		if b.pos > old {
			clear(b.buf[old:b.pos])
		}
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

// Read reads from the current position.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += int64(n)
	return n, nil
}

var errNegativePosition = errors.New("membuf: negative position")

// Seek sets the position for the next Read or Write.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("membuf: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativePosition
	}
	b.pos = abs
	return abs, nil
}
