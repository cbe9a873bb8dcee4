package main

import (
	"bytes"
	"fmt"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/format/elf"
	"github.com/wippyai/binbin/format/wasm"
)

// region labels a byte range of an artifact for display.
type region struct {
	label string
	rng   binbin.Range
}

// artifact is a sample binary built by one of the format emitters.
type artifact struct {
	name    string
	order   endian.Endian
	data    []byte
	regions []region
	// emit writes the same artifact to another writer, for WriteFile.
	emit func(w *binbin.Writer) error
}

func buildArtifact(format string, order endian.Endian, checksum bool) (*artifact, error) {
	switch format {
	case "wasm":
		return wasmArtifact(checksum)
	case "elf":
		return elfArtifact(order)
	}
	return nil, fmt.Errorf("unknown format %q (want wasm or elf)", format)
}

func sampleModule(checksum bool) *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
		},
		Funcs: []wasm.Func{
			// local.get 0, local.get 1, i32.add, end
			{Type: 0, Code: []byte{0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b}},
		},
		Memory: &wasm.Limits{Min: 1},
		Exports: []wasm.Export{
			{Name: "add", Kind: wasm.KindFunc, Idx: 0},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
		},
		Data: []wasm.DataSegment{
			{Offset: 0, Init: []byte("written by binbin")},
		},
		Checksum: checksum,
	}
}

func wasmArtifact(checksum bool) (*artifact, error) {
	m := sampleModule(checksum)
	data, layout, err := wasm.Encode(m)
	if err != nil {
		return nil, err
	}

	a := &artifact{
		name:    "wasm module",
		order:   endian.Little,
		data:    data,
		regions: []region{{label: "preamble", rng: binbin.Range{Start: 0, End: 8}}},
		emit: func(w *binbin.Writer) error {
			_, err := m.Emit(w)
			return err
		},
	}
	for _, s := range layout.Sections {
		a.regions = append(a.regions, region{
			label: wasmSectionName(s),
			rng:   binbin.Range{Start: s.Start, End: s.End},
		})
	}
	return a, nil
}

func wasmSectionName(s wasm.SectionRange) string {
	switch s.ID {
	case wasm.SectionCustom:
		return "custom:" + s.Name
	case wasm.SectionType:
		return "type"
	case wasm.SectionFunction:
		return "function"
	case wasm.SectionMemory:
		return "memory"
	case wasm.SectionExport:
		return "export"
	case wasm.SectionCode:
		return "code"
	case wasm.SectionData:
		return "data"
	}
	return fmt.Sprintf("section %d", s.ID)
}

func sampleObject() *elf.File {
	return &elf.File{
		Type:    elf.TypeRel,
		Machine: elf.MachineARM,
		Sections: []elf.Section{
			// bx lr
			{Name: ".text", Type: elf.SectionProgbits, Flags: elf.FlagAlloc | elf.FlagExecInstr, Align: 4, Data: []byte{0x1e, 0xff, 0x2f, 0xe1}},
			{Name: ".rodata", Type: elf.SectionProgbits, Flags: elf.FlagAlloc, Align: 1, Data: []byte("written by binbin\x00")},
			{Name: ".bss", Type: elf.SectionNobits, Flags: elf.FlagAlloc | elf.FlagWrite, Align: 8, Size: 256},
			{Name: ".comment", Type: elf.SectionProgbits, Align: 1, Data: bytes.Repeat([]byte("binbin "), 32), Compress: elf.CompressZstd},
		},
	}
}

func elfArtifact(order endian.Endian) (*artifact, error) {
	f := sampleObject()
	data, layout, err := elf.Encode(f, order)
	if err != nil {
		return nil, err
	}

	a := &artifact{
		name:    "elf32 object (" + order.String() + ")",
		order:   order,
		data:    data,
		regions: []region{{label: "elf header", rng: layout.Header}},
		emit: func(w *binbin.Writer) error {
			_, err := f.Emit(w)
			return err
		},
	}
	for i, s := range f.Sections {
		a.regions = append(a.regions, region{label: s.Name, rng: layout.Sections[i]})
	}
	a.regions = append(a.regions,
		region{label: ".shstrtab", rng: layout.StringTable},
		region{label: "section headers", rng: layout.SectionHeaders},
	)
	return a, nil
}
