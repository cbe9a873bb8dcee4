package pack

import "github.com/wippyai/binbin/endian"

// Override renders Value with a fixed byte order, ignoring the writer's.
// This is how mixed-endian formats are written.
type Override struct {
	Value  Packer
	Endian endian.Endian
}

// WithEndian wraps v so that it always packs with e.
func WithEndian(e endian.Endian, v Packer) Override {
	return Override{Value: v, Endian: e}
}

func (o Override) PackLen() int { return o.Value.PackLen() }

func (o Override) PackInto(buf []byte, ambient endian.Endian) {
	o.Value.PackInto(buf, pick(o.Endian, ambient))
}

// FixedOverride is Override for fixed-length values. It is itself fixed
// length, so it can be used as a deferred value.
type FixedOverride[T FixedPacker] struct {
	Value  T
	Endian endian.Endian
}

// WithFixedEndian wraps v so that it always packs with e.
func WithFixedEndian[T FixedPacker](e endian.Endian, v T) FixedOverride[T] {
	return FixedOverride[T]{Value: v, Endian: e}
}

// LE forces little-endian packing of v.
func LE[T FixedPacker](v T) FixedOverride[T] { return WithFixedEndian(endian.Little, v) }

// BE forces big-endian packing of v.
func BE[T FixedPacker](v T) FixedOverride[T] { return WithFixedEndian(endian.Big, v) }

func (o FixedOverride[T]) PackLen() int  { return o.Value.PackLen() }
func (o FixedOverride[T]) FixedLen() int { return o.Value.FixedLen() }

func (o FixedOverride[T]) PackInto(buf []byte, ambient endian.Endian) {
	o.Value.PackInto(buf, pick(o.Endian, ambient))
}

// pick returns the override, falling back to the ambient order only for a
// zero-valued wrapper.
func pick(override, ambient endian.Endian) endian.Endian {
	if override != nil {
		return override
	}
	return ambient
}
