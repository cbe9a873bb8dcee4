package binbin

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/binbin/errors"
	"github.com/wippyai/binbin/pack"
)

// Deferred is a handle to a slot whose final value is written later.
//
// The handle is a small copyable value. The slot itself, with the list of
// offsets where placeholders were written, lives in the Writer that opened
// it; the handle only refers to it by index.
type Deferred[T pack.FixedPacker] struct {
	w       *Writer
	initial T
	idx     int
}

// Len returns the number of bytes each placeholder and each resolved value
// occupies.
func (d Deferred[T]) Len() int {
	return pack.LenOf[T]()
}

// Index returns the slot index within its writer.
func (d Deferred[T]) Index() int {
	return d.idx
}

// Initial returns the value written by WritePlaceholder.
func (d Deferred[T]) Initial() T {
	return d.initial
}

// Placeholders returns how many placeholders have been written for the slot.
func (d Deferred[T]) Placeholders() int {
	if d.w == nil {
		return 0
	}
	offsets, _ := d.w.slots.Offsets(d.idx)
	return len(offsets)
}

// NewDeferred opens a slot whose placeholders will contain initial until the
// slot is resolved. It does not write anything.
func NewDeferred[T pack.FixedPacker](w *Writer, initial T) Deferred[T] {
	idx := w.slots.Open()
	w.log.Debug("slot opened",
		zap.Int("slot", idx),
		zap.Int("width", pack.LenOf[T]()),
		zap.String("type", fmt.Sprintf("%T", initial)))
	return Deferred[T]{w: w, idx: idx, initial: initial}
}

// WritePlaceholder writes the slot's initial value at the current position
// and records the position so Resolve can patch it. The position is recorded
// only if the write succeeds.
func WritePlaceholder[T pack.FixedPacker](w *Writer, d Deferred[T]) (int, error) {
	if err := w.check(errors.PhaseWrite); err != nil {
		return 0, err
	}
	if err := owned(errors.PhaseWrite, w, d); err != nil {
		return 0, err
	}
	if err := checkWidth(errors.PhaseWrite, d.initial); err != nil {
		return 0, err
	}
	pos, err := w.position()
	if err != nil {
		return 0, err
	}
	n, err := w.emit(d.initial)
	if err != nil {
		return n, err
	}
	if err := w.slots.Record(d.idx, pos); err != nil {
		return n, errors.Wrap(errors.PhaseWrite, errors.KindInvalidInput, err, "record placeholder")
	}
	w.log.Debug("placeholder", zap.Int("slot", d.idx), zap.Int64("offset", pos))
	return n, nil
}

// WriteDeferred opens a slot and writes its first placeholder.
func WriteDeferred[T pack.FixedPacker](w *Writer, initial T) (Deferred[T], error) {
	d := NewDeferred(w, initial)
	if _, err := WritePlaceholder(w, d); err != nil {
		return d, err
	}
	return d, nil
}

// Resolve overwrites every placeholder written so far for d with v and
// returns v. The write position is restored afterwards, including on error.
//
// Resolve can be called again; each call patches all placeholders recorded
// up to that point, so the most recent value wins.
func Resolve[T pack.FixedPacker](w *Writer, d Deferred[T], v T) (T, error) {
	var zero T
	if err := w.check(errors.PhaseResolve); err != nil {
		return zero, err
	}
	if err := owned(errors.PhaseResolve, w, d); err != nil {
		return zero, err
	}
	if err := checkWidth(errors.PhaseResolve, v); err != nil {
		return zero, err
	}
	offsets, err := w.slots.Offsets(d.idx)
	if err != nil {
		return zero, errors.Wrap(errors.PhaseResolve, errors.KindInvalidInput, err, "resolve slot")
	}

	buf := pack.Render(v, w.order)
	err = w.restoring(func() error {
		for _, off := range offsets {
			if _, err := w.m.Seek(off, io.SeekStart); err != nil {
				return err
			}
			if _, err := w.m.Write(buf); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	w.log.Debug("resolved", zap.Int("slot", d.idx), zap.Int("placeholders", len(offsets)))
	return v, nil
}

func owned[T pack.FixedPacker](phase errors.Phase, w *Writer, d Deferred[T]) error {
	if d.w != w {
		return errors.ForeignHandle(phase, d.idx)
	}
	return nil
}

// checkWidth rejects values whose PackLen disagrees with their type's
// FixedLen, which would otherwise corrupt neighbouring bytes when patched.
func checkWidth[T pack.FixedPacker](phase errors.Phase, v T) error {
	want := pack.LenOf[T]()
	if got := v.PackLen(); got != want {
		return errors.WidthMismatch(phase, fmt.Sprintf("%T", v), want, got)
	}
	return nil
}
