// Package elf emits 32-bit ELF relocatable objects.
//
// The file header is written first with its section header offset, count and
// string table index deferred. Section contents follow, then the section name
// string table, then the section header table, after which the header fields
// are resolved in place.
package elf

import (
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/errors"
	"github.com/wippyai/binbin/pack"
)

// Object file types.
const (
	TypeNone Type = 0
	TypeRel  Type = 1
	TypeExec Type = 2
	TypeDyn  Type = 3
)

// Machine architectures.
const (
	MachineNone  Machine = 0
	Machine386   Machine = 3
	MachineMIPS  Machine = 8
	MachinePPC   Machine = 20
	MachineARM   Machine = 40
	MachineRISCV Machine = 243
)

// Section types.
const (
	SectionNull     SectionType = 0
	SectionProgbits SectionType = 1
	SectionSymtab   SectionType = 2
	SectionStrtab   SectionType = 3
	SectionNobits   SectionType = 8
)

// Section flags.
const (
	FlagWrite      uint32 = 0x1
	FlagAlloc      uint32 = 0x2
	FlagExecInstr  uint32 = 0x4
	FlagCompressed uint32 = 0x800
)

// Compression selects how a section's contents are stored.
type Compression uint32

const (
	CompressNone Compression = 0
	CompressZstd Compression = 2
)

const (
	headerSize         = 52
	sectionHeaderSize  = 40
	compressHeaderSize = 12

	classELF32  = 1
	dataLSB     = 1
	dataMSB     = 2
	versionCurr = 1
)

type (
	Type        uint16
	Machine     uint16
	SectionType uint32
)

// Section is one section of the object. Index 0 is reserved for the null
// section and is added automatically.
//
// Align is the required alignment of the contents; 0 and 1 mean none. Size
// is only used for SectionNobits, which occupy no file space; other sections
// take their size from Data. A compressed section is stored as a compression
// header followed by the compressed Data, and is aligned to 4.
type Section struct {
	Name     string
	Type     SectionType
	Flags    uint32
	Align    uint32
	Size     uint32
	Data     []byte
	Compress Compression
}

// File describes the object to emit.
type File struct {
	Type     Type
	Machine  Machine
	Flags    uint32
	Sections []Section
}

// Layout records where each part of the emitted object lies.
type Layout struct {
	Header         binbin.Range
	Sections       []binbin.Range
	StringTable    binbin.Range
	SectionHeaders binbin.Range
}

// Encode renders f with the given byte order.
func Encode(f *File, order endian.Endian) ([]byte, *Layout, error) {
	var buf []byte
	l, err := binbin.WriteVec(&buf, order, f.Emit)
	if err != nil {
		return nil, nil, err
	}
	return buf, l, nil
}

type header struct {
	shoff    binbin.Deferred[pack.U32]
	shnum    binbin.Deferred[pack.U16]
	shstrndx binbin.Deferred[pack.U16]
}

// Emit writes f at the writer's current position, which must be the start
// of the output since ELF offsets are absolute. The byte order recorded in
// the identification bytes is the writer's.
func (f *File) Emit(w *binbin.Writer) (*Layout, error) {
	if len(f.Sections) > 0xfefe {
		return nil, errors.InvalidInput(errors.PhaseFormat, fmt.Sprintf("too many sections: %d", len(f.Sections)))
	}
	start, err := w.Position()
	if err != nil {
		return nil, err
	}
	if start != 0 {
		return nil, errors.InvalidInput(errors.PhaseFormat, fmt.Sprintf("object must start at offset 0, not %d", start))
	}

	l := &Layout{}
	var h header
	l.Header, err = w.Subregion(func(w *binbin.Writer) error {
		var err error
		h, err = writeHeader(w, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	strtab := newStringTable()
	names := make([]uint32, len(f.Sections))
	offsets := make([]uint32, len(f.Sections))
	for i, s := range f.Sections {
		names[i] = strtab.add(s.Name)
		if align := fileAlign(s); align > 1 {
			if _, err := w.Align(int(align)); err != nil {
				return nil, err
			}
		}
		rng, err := w.Subregion(func(w *binbin.Writer) error {
			switch {
			case s.Type == SectionNobits:
				return nil
			case s.Compress != CompressNone:
				return writeCompressed(w, s)
			}
			_, err := w.Write(pack.Bytes(s.Data))
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := fits32(s.Name, rng); err != nil {
			return nil, err
		}
		offsets[i] = uint32(rng.Start)
		l.Sections = append(l.Sections, rng)
	}

	shstrName := strtab.add(".shstrtab")
	l.StringTable, err = w.Subregion(func(w *binbin.Writer) error {
		_, err := w.Write(pack.Bytes(strtab.data))
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := fits32(".shstrtab", l.StringTable); err != nil {
		return nil, err
	}

	if _, err := w.Align(4); err != nil {
		return nil, err
	}
	l.SectionHeaders, err = w.Subregion(func(w *binbin.Writer) error {
		if err := writeSectionHeader(w, sectionHeader{}); err != nil {
			return err
		}
		for i, s := range f.Sections {
			sh := sectionHeader{
				name:   names[i],
				typ:    s.Type,
				flags:  s.Flags,
				offset: offsets[i],
				size:   uint32(l.Sections[i].Len()),
				align:  s.Align,
			}
			switch {
			case s.Type == SectionNobits:
				sh.size = s.Size
			case s.Compress != CompressNone:
				sh.flags |= FlagCompressed
				sh.align = fileAlign(s)
			}
			if err := writeSectionHeader(w, sh); err != nil {
				return err
			}
		}
		return writeSectionHeader(w, sectionHeader{
			name:   shstrName,
			typ:    SectionStrtab,
			offset: uint32(l.StringTable.Start),
			size:   uint32(l.StringTable.Len()),
			align:  1,
		})
	})
	if err != nil {
		return nil, err
	}
	if err := fits32("section headers", l.SectionHeaders); err != nil {
		return nil, err
	}

	count := uint16(len(f.Sections) + 2)
	if _, err := binbin.Resolve(w, h.shoff, pack.U32(l.SectionHeaders.Start)); err != nil {
		return nil, err
	}
	if _, err := binbin.Resolve(w, h.shnum, pack.U16(count)); err != nil {
		return nil, err
	}
	if _, err := binbin.Resolve(w, h.shstrndx, pack.U16(count-1)); err != nil {
		return nil, err
	}
	return l, nil
}

func writeHeader(w *binbin.Writer, f *File) (header, error) {
	var h header

	data := byte(dataLSB)
	if w.Endian() == endian.Big {
		data = dataMSB
	}
	ident := [16]byte{0x7f, 'E', 'L', 'F', classELF32, data, versionCurr}
	if _, err := w.Write(pack.Bytes(ident[:])); err != nil {
		return h, err
	}

	fields := []pack.Packer{
		pack.U16(f.Type),
		pack.U16(f.Machine),
		pack.U32(versionCurr),
		pack.U32(0), // entry
		pack.U32(0), // program header offset
	}
	for _, v := range fields {
		if _, err := w.Write(v); err != nil {
			return h, err
		}
	}

	var err error
	if h.shoff, err = binbin.WriteDeferred(w, pack.U32(0)); err != nil {
		return h, err
	}

	fields = []pack.Packer{
		pack.U32(f.Flags),
		pack.U16(headerSize),
		pack.U16(0), // program header entry size
		pack.U16(0), // program header count
		pack.U16(sectionHeaderSize),
	}
	for _, v := range fields {
		if _, err := w.Write(v); err != nil {
			return h, err
		}
	}

	if h.shnum, err = binbin.WriteDeferred(w, pack.U16(0)); err != nil {
		return h, err
	}
	if h.shstrndx, err = binbin.WriteDeferred(w, pack.U16(0)); err != nil {
		return h, err
	}
	return h, nil
}

// fits32 rejects ranges that ELF32 offsets and sizes cannot address.
func fits32(what string, rng binbin.Range) error {
	if rng.End > math.MaxUint32 {
		return errors.Overflow(errors.PhaseFormat, []string{what}, rng.End, "elf32 offset")
	}
	return nil
}

func fileAlign(s Section) uint32 {
	if s.Compress != CompressNone && s.Type != SectionNobits {
		return 4
	}
	return s.Align
}

// writeCompressed writes the compression header and streams the compressed
// contents straight into the output.
func writeCompressed(w *binbin.Writer, s Section) error {
	if s.Compress != CompressZstd {
		return errors.Unsupported(errors.PhaseFormat, fmt.Sprintf("section %s: compression type %d", s.Name, s.Compress))
	}
	if uint64(len(s.Data)) > math.MaxUint32 {
		return errors.Overflow(errors.PhaseFormat, []string{s.Name}, len(s.Data), "elf32 ch_size")
	}
	chdr := [3]pack.U32{
		pack.U32(s.Compress),
		pack.U32(len(s.Data)),
		pack.U32(max(s.Align, 1)),
	}
	for _, v := range chdr {
		if _, err := w.Write(v); err != nil {
			return err
		}
	}

	zw, err := zstd.NewWriter(w.Raw(), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return errors.Wrap(errors.PhaseFormat, errors.KindInvalidInput, err, "create zstd encoder")
	}
	if _, err := zw.Write(s.Data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

type sectionHeader struct {
	name   uint32
	typ    SectionType
	flags  uint32
	offset uint32
	size   uint32
	align  uint32
}

func writeSectionHeader(w *binbin.Writer, sh sectionHeader) error {
	fields := [10]pack.U32{
		pack.U32(sh.name),
		pack.U32(sh.typ),
		pack.U32(sh.flags),
		0, // addr
		pack.U32(sh.offset),
		pack.U32(sh.size),
		0, // link
		0, // info
		pack.U32(sh.align),
		0, // entsize
	}
	for _, v := range fields {
		if _, err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// stringTable deduplicates names; offset 0 is the empty string.
type stringTable struct {
	data []byte
	seen map[string]uint32
}

func newStringTable() *stringTable {
	return &stringTable{data: []byte{0}, seen: map[string]uint32{"": 0}}
}

func (t *stringTable) add(s string) uint32 {
	if off, ok := t.seen[s]; ok {
		return off
	}
	off := uint32(len(t.data))
	t.data = append(t.data, s...)
	t.data = append(t.data, 0)
	t.seen[s] = off
	return off
}
