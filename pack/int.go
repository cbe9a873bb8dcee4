package pack

import "github.com/wippyai/binbin/endian"

// Fixed-width integers. Signed values pack as the unsigned bit pattern of
// the same width.
type (
	U8  uint8
	U16 uint16
	U32 uint32
	U64 uint64
	I8  int8
	I16 int16
	I32 int32
	I64 int64
)

func (U8) PackLen() int                         { return 1 }
func (U8) FixedLen() int                        { return 1 }
func (v U8) PackInto(b []byte, _ endian.Endian) { b[0] = byte(v) }

func (U16) PackLen() int                         { return 2 }
func (U16) FixedLen() int                        { return 2 }
func (v U16) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(v), b) }

func (U32) PackLen() int                         { return 4 }
func (U32) FixedLen() int                        { return 4 }
func (v U32) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(v), b) }

func (U64) PackLen() int                         { return 8 }
func (U64) FixedLen() int                        { return 8 }
func (v U64) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(v), b) }

func (I8) PackLen() int                         { return 1 }
func (I8) FixedLen() int                        { return 1 }
func (v I8) PackInto(b []byte, _ endian.Endian) { b[0] = byte(v) }

func (I16) PackLen() int                         { return 2 }
func (I16) FixedLen() int                        { return 2 }
func (v I16) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(uint16(v)), b) }

func (I32) PackLen() int                         { return 4 }
func (I32) FixedLen() int                        { return 4 }
func (v I32) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(uint32(v)), b) }

func (I64) PackLen() int                         { return 8 }
func (I64) FixedLen() int                        { return 8 }
func (v I64) PackInto(b []byte, e endian.Endian) { e.PutUint(uint64(v), b) }
