package binbin

import (
	"io"

	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/internal/membuf"
)

// Write runs fn against a new writer over m and finalizes the writer if fn
// succeeds. Any error from fn or from finalization is returned, and m is
// then left partially written.
func Write[R any](m io.WriteSeeker, order endian.Endian, fn func(w *Writer) (R, error)) (R, error) {
	return WriteWithConfig(m, order, nil, fn)
}

// WriteWithConfig is Write with custom writer configuration.
func WriteWithConfig[R any](m io.WriteSeeker, order endian.Endian, cfg *Config, fn func(w *Writer) (R, error)) (R, error) {
	var zero R
	w := NewWithConfig(m, order, cfg)
	ret, err := fn(w)
	if err != nil {
		return zero, err
	}
	if err := w.Finalize(); err != nil {
		return zero, err
	}
	return ret, nil
}

// WriteLE is Write with little-endian default byte order.
func WriteLE[R any](m io.WriteSeeker, fn func(w *Writer) (R, error)) (R, error) {
	return Write(m, endian.Little, fn)
}

// WriteBE is Write with big-endian default byte order.
func WriteBE[R any](m io.WriteSeeker, fn func(w *Writer) (R, error)) (R, error) {
	return Write(m, endian.Big, fn)
}

// WriteVec runs fn against a writer over *buf starting at offset 0. Existing
// bytes are overwritten and the slice grows as needed; bytes past the end of
// the output are kept. The medium supports read-back, so Derive is
// available. *buf is updated even when fn fails.
func WriteVec[R any](buf *[]byte, order endian.Endian, fn func(w *Writer) (R, error)) (R, error) {
	mb := membuf.New(*buf)
	ret, err := Write(mb, order, fn)
	*buf = mb.Bytes()
	return ret, err
}

// WriteVecLE is WriteVec with little-endian default byte order.
func WriteVecLE[R any](buf *[]byte, fn func(w *Writer) (R, error)) (R, error) {
	return WriteVec(buf, endian.Little, fn)
}

// WriteVecBE is WriteVec with big-endian default byte order.
func WriteVecBE[R any](buf *[]byte, fn func(w *Writer) (R, error)) (R, error) {
	return WriteVec(buf, endian.Big, fn)
}
