// Package pack defines how values render themselves into bytes.
//
// A Packer reports its encoded length and fills a buffer of exactly that
// length. A FixedPacker additionally has a length that depends only on its
// type, which is what the writer needs to reserve room for a deferred value
// before the value is known.
package pack

import (
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/errors"
)

// Packer is a value that can be written by the writer engine.
type Packer interface {
	// PackLen returns the number of bytes PackInto will fill.
	PackLen() int

	// PackInto renders the value into buf, which has exactly PackLen bytes.
	// Types that honor byte order use e; others ignore it.
	PackInto(buf []byte, e endian.Endian)
}

// FixedPacker is a Packer whose length is a property of its type.
//
// FixedLen must return the same value for every value of the type,
// including the zero value, and must equal PackLen.
type FixedPacker interface {
	Packer
	FixedLen() int
}

// IntoPacker is implemented by types that are not packable themselves but
// have a packed form.
type IntoPacker interface {
	IntoPack() Packer
}

// LenOf returns the fixed length of T without needing a value of it.
func LenOf[T FixedPacker]() int {
	var zero T
	return zero.FixedLen()
}

// Render packs v into a fresh buffer.
func Render(v Packer, e endian.Endian) []byte {
	buf := make([]byte, v.PackLen())
	v.PackInto(buf, e)
	return buf
}

// Into converts v to its packed form.
//
// Packers convert to themselves. The fixed-width Go integer types map to the
// matching integer packers, []byte and string map to Bytes. int and uint are
// rejected because their width depends on the platform.
func Into(v any) (Packer, error) {
	switch x := v.(type) {
	case Packer:
		return x, nil
	case IntoPacker:
		return x.IntoPack(), nil
	case uint8:
		return U8(x), nil
	case uint16:
		return U16(x), nil
	case uint32:
		return U32(x), nil
	case uint64:
		return U64(x), nil
	case int8:
		return I8(x), nil
	case int16:
		return I16(x), nil
	case int32:
		return I32(x), nil
	case int64:
		return I64(x), nil
	case []byte:
		return Bytes(x), nil
	case string:
		return Bytes(x), nil
	}
	return nil, errors.UnsupportedType(errors.PhasePack, v)
}
