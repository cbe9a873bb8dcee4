package binbin

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/errors"
	"github.com/wippyai/binbin/internal/slot"
	"github.com/wippyai/binbin/pack"
)

// Writer writes packed values to a seekable medium and tracks deferred slots.
//
// During writing the medium contains placeholder bytes for any unresolved
// deferred values. A file on disk may be observed in that state by other
// processes; use WriteFile to publish only complete output.
type Writer struct {
	m     io.WriteSeeker
	order endian.Endian
	log   *zap.Logger
	slots slot.Table
	pad   byte
	done  bool
}

// Range is a half-open byte range [Start, End) of the output.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Start, r.End)
}

// flusher is implemented by buffered media such as bufio.Writer.
type flusher interface {
	Flush() error
}

// New creates a writer over m that packs multi-byte values with order.
// A nil order means endian.Little.
func New(m io.WriteSeeker, order endian.Endian) *Writer {
	return NewWithConfig(m, order, nil)
}

// NewWithConfig creates a writer with custom configuration
func NewWithConfig(m io.WriteSeeker, order endian.Endian, cfg *Config) *Writer {
	if order == nil {
		order = endian.Little
	}
	w := &Writer{
		m:     m,
		order: order,
		log:   Logger(),
	}
	if cfg != nil {
		if cfg.Logger != nil {
			w.log = cfg.Logger
		}
		w.pad = cfg.Padding
	}
	return w
}

// Endian returns the writer's default byte order.
func (w *Writer) Endian() endian.Endian {
	return w.order
}

// Write packs v with the writer's byte order at the current position.
// It returns the number of bytes written.
func (w *Writer) Write(v pack.Packer) (int, error) {
	if err := w.check(errors.PhaseWrite); err != nil {
		return 0, err
	}
	return w.emit(v)
}

// WriteAny converts v with pack.Into and writes it.
func (w *Writer) WriteAny(v any) (int, error) {
	p, err := pack.Into(v)
	if err != nil {
		return 0, err
	}
	return w.Write(p)
}

// Skip writes count copies of the padding byte.
func (w *Writer) Skip(count int) (int, error) {
	if err := w.check(errors.PhaseWrite); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, errors.InvalidInput(errors.PhaseWrite, fmt.Sprintf("negative skip count %d", count))
	}
	return w.fill(count)
}

// SetPadding changes the byte used by future calls to Skip and Align.
// Padding already written is not affected.
func (w *Writer) SetPadding(b byte) {
	w.pad = b
}

// Padding returns the current padding byte.
func (w *Writer) Padding() byte {
	return w.pad
}

// Position returns the current absolute offset in the medium.
func (w *Writer) Position() (int64, error) {
	if err := w.check(errors.PhaseWrite); err != nil {
		return 0, err
	}
	return w.position()
}

// Align writes padding until the position is a multiple of n, and returns
// the number of padding bytes written. n need not be a power of two.
func (w *Writer) Align(n int) (int, error) {
	if err := w.check(errors.PhaseAlign); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.InvalidInput(errors.PhaseAlign, fmt.Sprintf("alignment %d must be positive", n))
	}
	pos, err := w.position()
	if err != nil {
		return 0, err
	}
	ofs := pos % int64(n)
	if ofs == 0 {
		return 0, nil
	}
	return w.fill(int(int64(n) - ofs))
}

// Subregion runs fn and returns the range of output it covered.
// Subregions may be nested.
func (w *Writer) Subregion(fn func(w *Writer) error) (Range, error) {
	start, err := w.Position()
	if err != nil {
		return Range{}, err
	}
	if err := fn(w); err != nil {
		return Range{}, err
	}
	end, err := w.Position()
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Raw returns an io.Writer that copies bytes verbatim to the current
// position, for streaming from encoders such as compressors.
func (w *Writer) Raw() io.Writer {
	return rawWriter{w: w}
}

type rawWriter struct {
	w *Writer
}

func (r rawWriter) Write(p []byte) (int, error) {
	if err := r.w.check(errors.PhaseWrite); err != nil {
		return 0, err
	}
	return r.w.m.Write(p)
}

// Finalize flushes the medium if it buffers and ends the writer's life.
// Any further operation fails with an errors.KindFinalized error.
func (w *Writer) Finalize() error {
	if err := w.check(errors.PhaseFinalize); err != nil {
		return err
	}
	w.done = true
	w.log.Debug("finalize", zap.Int("slots", w.slots.Len()))
	if f, ok := w.m.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (w *Writer) check(phase errors.Phase) error {
	if w.done {
		return errors.Finalized(phase)
	}
	return nil
}

func (w *Writer) emit(v pack.Packer) (int, error) {
	return w.m.Write(pack.Render(v, w.order))
}

func (w *Writer) fill(count int) (int, error) {
	if count == 0 {
		return 0, nil
	}
	buf := make([]byte, count)
	if w.pad != 0 {
		for i := range buf {
			buf[i] = w.pad
		}
	}
	return w.m.Write(buf)
}

func (w *Writer) position() (int64, error) {
	return w.m.Seek(0, io.SeekCurrent)
}

// restoring runs fn and then seeks back to the position observed on entry,
// on every exit path. An error from fn takes precedence over a seek error.
func (w *Writer) restoring(fn func() error) (err error) {
	pos, err := w.position()
	if err != nil {
		return err
	}
	defer func() {
		if _, serr := w.m.Seek(pos, io.SeekStart); serr != nil && err == nil {
			err = serr
		}
	}()
	return fn()
}
