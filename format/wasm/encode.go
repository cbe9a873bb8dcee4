package wasm

import (
	"fmt"
	"math"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/errors"
	"github.com/wippyai/binbin/pack"
)

// Encode renders m into a new buffer.
func Encode(m *Module) ([]byte, *Layout, error) {
	var buf []byte
	l, err := binbin.WriteVecLE(&buf, m.Emit)
	if err != nil {
		return nil, nil, err
	}
	return buf, l, nil
}

// Emit writes m at the writer's current position. Every integer in the
// binary format is LEB128 or explicitly little-endian, so the writer's byte
// order does not matter.
func (m *Module) Emit(w *binbin.Writer) (*Layout, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	start, err := w.Position()
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(pack.LE(pack.U32(Magic))); err != nil {
		return nil, err
	}
	if _, err := w.Write(pack.LE(pack.U32(Version))); err != nil {
		return nil, err
	}

	e := &emitter{w: w, l: &Layout{}}
	steps := []struct {
		id   byte
		emit func(w *binbin.Writer) error
		skip bool
	}{
		{SectionType, m.writeTypes, len(m.Types) == 0},
		{SectionFunction, m.writeFunctions, len(m.Funcs) == 0},
		{SectionMemory, m.writeMemory, m.Memory == nil},
		{SectionExport, m.writeExports, len(m.Exports) == 0},
		{SectionCode, m.writeCode, len(m.Funcs) == 0},
		{SectionData, m.writeData, len(m.Data) == 0},
	}
	for _, s := range steps {
		if s.skip {
			continue
		}
		if err := e.section(s.id, "", s.emit); err != nil {
			return nil, err
		}
	}
	for _, cs := range m.Custom {
		err := e.section(SectionCustom, cs.Name, func(w *binbin.Writer) error {
			_, err := w.Write(pack.Bytes(cs.Data))
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	if m.Checksum {
		if err := e.checksum(start); err != nil {
			return nil, err
		}
	}
	return e.l, nil
}

func (m *Module) validate() error {
	for i, f := range m.Funcs {
		if int(f.Type) >= len(m.Types) {
			return errors.InvalidInput(errors.PhaseFormat,
				fmt.Sprintf("function %d uses type %d, module has %d types", i, f.Type, len(m.Types)))
		}
		if len(f.Code) == 0 || f.Code[len(f.Code)-1] != opEnd {
			return errors.InvalidInput(errors.PhaseFormat,
				fmt.Sprintf("function %d code does not end with the end opcode", i))
		}
	}
	for _, exp := range m.Exports {
		switch exp.Kind {
		case KindFunc:
			if int(exp.Idx) >= len(m.Funcs) {
				return errors.InvalidInput(errors.PhaseFormat,
					fmt.Sprintf("export %q refers to missing function %d", exp.Name, exp.Idx))
			}
		case KindMemory:
			if m.Memory == nil || exp.Idx != 0 {
				return errors.InvalidInput(errors.PhaseFormat,
					fmt.Sprintf("export %q refers to missing memory %d", exp.Name, exp.Idx))
			}
		default:
			return errors.Unsupported(errors.PhaseFormat, fmt.Sprintf("export kind %d", exp.Kind))
		}
	}
	if len(m.Data) > 0 && m.Memory == nil {
		return errors.InvalidInput(errors.PhaseFormat, "data segments require a memory")
	}
	return nil
}

type emitter struct {
	w *binbin.Writer
	l *Layout
}

// section writes a section ID and a deferred size, runs body, then patches
// the size. Custom sections get their name written ahead of body.
func (e *emitter) section(id byte, name string, body func(w *binbin.Writer) error) error {
	start, err := e.w.Position()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(pack.U8(id)); err != nil {
		return err
	}
	rng, err := sized(e.w, func(w *binbin.Writer) error {
		if id == SectionCustom {
			if err := writeName(w, name); err != nil {
				return err
			}
		}
		return body(w)
	})
	if err != nil {
		return err
	}
	e.l.Sections = append(e.l.Sections, SectionRange{
		Name:  name,
		Start: start,
		End:   rng.End,
		Body:  rng.Start,
		ID:    id,
	})
	return nil
}

// sized reserves a padded size, writes body, and resolves the size to the
// body's length. It returns the body's range.
func sized(w *binbin.Writer, body func(w *binbin.Writer) error) (binbin.Range, error) {
	size, err := binbin.WriteDeferred(w, pack.PaddedULEB32(0))
	if err != nil {
		return binbin.Range{}, err
	}
	rng, err := w.Subregion(body)
	if err != nil {
		return binbin.Range{}, err
	}
	if rng.Len() > math.MaxUint32 {
		return binbin.Range{}, errors.Overflow(errors.PhaseFormat, nil, rng.Len(), "u32 size")
	}
	if _, err := binbin.Resolve(w, size, pack.PaddedULEB32(rng.Len())); err != nil {
		return binbin.Range{}, err
	}
	return rng, nil
}

func vec(w *binbin.Writer, n int, item func(i int) error) error {
	if _, err := w.Write(pack.ULEB128(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := item(i); err != nil {
			return err
		}
	}
	return nil
}

func writeName(w *binbin.Writer, s string) error {
	if _, err := w.Write(pack.ULEB128(len(s))); err != nil {
		return err
	}
	_, err := w.Write(pack.Bytes(s))
	return err
}

func writeValTypes(w *binbin.Writer, types []ValType) error {
	return vec(w, len(types), func(i int) error {
		_, err := w.Write(pack.U8(types[i]))
		return err
	})
}

func (m *Module) writeTypes(w *binbin.Writer) error {
	return vec(w, len(m.Types), func(i int) error {
		if _, err := w.Write(pack.U8(funcTypeByte)); err != nil {
			return err
		}
		if err := writeValTypes(w, m.Types[i].Params); err != nil {
			return err
		}
		return writeValTypes(w, m.Types[i].Results)
	})
}

func (m *Module) writeFunctions(w *binbin.Writer) error {
	return vec(w, len(m.Funcs), func(i int) error {
		_, err := w.Write(pack.ULEB128(m.Funcs[i].Type))
		return err
	})
}

func (m *Module) writeMemory(w *binbin.Writer) error {
	return vec(w, 1, func(int) error {
		var flags byte
		if m.Memory.Max != nil {
			flags |= limitsHasMax
		}
		if _, err := w.Write(pack.U8(flags)); err != nil {
			return err
		}
		if _, err := w.Write(pack.ULEB128(m.Memory.Min)); err != nil {
			return err
		}
		if m.Memory.Max != nil {
			_, err := w.Write(pack.ULEB128(*m.Memory.Max))
			return err
		}
		return nil
	})
}

func (m *Module) writeExports(w *binbin.Writer) error {
	return vec(w, len(m.Exports), func(i int) error {
		exp := m.Exports[i]
		if err := writeName(w, exp.Name); err != nil {
			return err
		}
		if _, err := w.Write(pack.U8(exp.Kind)); err != nil {
			return err
		}
		_, err := w.Write(pack.ULEB128(exp.Idx))
		return err
	})
}

func (m *Module) writeCode(w *binbin.Writer) error {
	return vec(w, len(m.Funcs), func(i int) error {
		f := m.Funcs[i]
		_, err := sized(w, func(w *binbin.Writer) error {
			groups := groupLocals(f.Locals)
			err := vec(w, len(groups), func(j int) error {
				if _, err := w.Write(pack.ULEB128(groups[j].count)); err != nil {
					return err
				}
				_, err := w.Write(pack.U8(groups[j].typ))
				return err
			})
			if err != nil {
				return err
			}
			_, err = w.Write(pack.Bytes(f.Code))
			return err
		})
		return err
	})
}

func (m *Module) writeData(w *binbin.Writer) error {
	return vec(w, len(m.Data), func(i int) error {
		d := m.Data[i]
		fields := []pack.Packer{
			pack.ULEB128(0), // active, memory 0
			pack.U8(opI32Const),
			pack.SLEB128(int32(d.Offset)),
			pack.U8(opEnd),
			pack.ULEB128(len(d.Init)),
			pack.Bytes(d.Init),
		}
		for _, v := range fields {
			if _, err := w.Write(v); err != nil {
				return err
			}
		}
		return nil
	})
}

type localGroup struct {
	count uint32
	typ   ValType
}

func groupLocals(locals []ValType) []localGroup {
	var groups []localGroup
	for _, t := range locals {
		if n := len(groups); n > 0 && groups[n-1].typ == t {
			groups[n-1].count++
			continue
		}
		groups = append(groups, localGroup{count: 1, typ: t})
	}
	return groups
}
