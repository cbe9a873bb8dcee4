// Package wasm emits WebAssembly core modules.
//
// Every section and function body is written with a five byte padded size
// that is reserved before the contents and patched once they are known, so
// the module is produced in a single forward pass with no intermediate
// buffers.
package wasm

// Binary format magic number and version.
const (
	Magic   uint32 = 0x6D736100
	Version uint32 = 0x01
)

// Section IDs. Sections are emitted in increasing ID order, custom sections
// last.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionExport   byte = 7
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Export kinds.
const (
	KindFunc   byte = 0
	KindMemory byte = 2
)

// ValType is a value type encoding.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

const (
	funcTypeByte byte = 0x60
	opI32Const   byte = 0x41
	opEnd        byte = 0x0B

	limitsHasMax byte = 0x01
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	}
	return "unknown"
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Func is a defined function. Locals lists the declared locals after the
// parameters, one entry per local; runs of equal types are grouped when
// encoded. Code is the instruction sequence including the final end opcode.
type Func struct {
	Type   uint32
	Locals []ValType
	Code   []byte
}

// Limits describes a memory's size in pages.
type Limits struct {
	Max *uint32
	Min uint32
}

// Export makes a function or memory visible to the host.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// DataSegment is an active segment initializing memory 0 at Offset.
type DataSegment struct {
	Init   []byte
	Offset uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

// Module is the module to emit.
type Module struct {
	Memory   *Limits
	Types    []FuncType
	Funcs    []Func
	Exports  []Export
	Data     []DataSegment
	Custom   []CustomSection
	Checksum bool
}

// SectionRange locates one emitted section. Start and End cover the whole
// section including its ID and size; Body is where the contents begin.
// Name is set for custom sections.
type SectionRange struct {
	Name  string
	Start int64
	End   int64
	Body  int64
	ID    byte
}

// Layout records the emitted sections in output order.
type Layout struct {
	Sections []SectionRange
}

// Section returns the first section with the given ID.
func (l *Layout) Section(id byte) (SectionRange, bool) {
	for _, s := range l.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionRange{}, false
}
