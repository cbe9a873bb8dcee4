// Package endian selects the byte order used to pack multi-byte integers.
//
// There are exactly two strategies, Little and Big. The Endian interface is
// sealed so that the writer engine can rely on that.
package endian

import "encoding/binary"

// Endian renders an unsigned magnitude into a fixed number of bytes.
type Endian interface {
	// PutUint writes the len(into) least significant bytes of v into into.
	// Bits above 8*len(into) are dropped.
	PutUint(v uint64, into []byte)

	// ByteOrder returns the equivalent encoding/binary byte order.
	ByteOrder() binary.ByteOrder

	String() string

	sealed()
}

type little struct{}

func (little) PutUint(v uint64, into []byte) {
	for i := range into {
		into[i] = byte(v >> (8 * i))
	}
}

func (little) ByteOrder() binary.ByteOrder { return binary.LittleEndian }
func (little) String() string              { return "little-endian" }
func (little) sealed()                     {}

type big struct{}

func (big) PutUint(v uint64, into []byte) {
	l := len(into)
	for i := range into {
		into[i] = byte(v >> (8 * (l - i - 1)))
	}
}

func (big) ByteOrder() binary.ByteOrder { return binary.BigEndian }
func (big) String() string              { return "big-endian" }
func (big) sealed()                     {}

var (
	// Little stores the least significant byte first.
	Little Endian = little{}
	// Big stores the most significant byte first.
	Big Endian = big{}
)

// Of maps an encoding/binary byte order onto a strategy.
func Of(order binary.ByteOrder) (Endian, bool) {
	switch order {
	case binary.LittleEndian:
		return Little, true
	case binary.BigEndian:
		return Big, true
	}
	return nil, false
}
