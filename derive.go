package binbin

import (
	"fmt"
	"hash"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/binbin/errors"
)

// DeriveReader reads a bounded range of already-written output.
// Reads past the end of the range report io.EOF even if the medium holds
// more data.
type DeriveReader struct {
	r   io.LimitedReader
	rng Range
}

// Read implements io.Reader.
func (d *DeriveReader) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

// Range returns the range being read.
func (d *DeriveReader) Range() Range {
	return d.rng
}

// Remaining returns the number of bytes left in the range.
func (d *DeriveReader) Remaining() int64 {
	return d.r.N
}

// Derive computes a value from bytes already written in rng.
//
// The medium must also implement io.Reader. fn receives a reader positioned
// at rng.Start and limited to rng.Len() bytes. The write position is
// restored afterwards whether or not fn succeeds, and fn's result is
// returned.
func Derive[T any](w *Writer, rng Range, fn func(r *DeriveReader) (T, error)) (T, error) {
	var zero T
	if err := w.check(errors.PhaseDerive); err != nil {
		return zero, err
	}
	if rng.End < rng.Start {
		return zero, errors.InvalidInput(errors.PhaseDerive,
			fmt.Sprintf("range end %d precedes start %d", rng.End, rng.Start))
	}
	src, ok := w.m.(io.Reader)
	if !ok {
		return zero, errors.Unsupported(errors.PhaseDerive, fmt.Sprintf("medium %T cannot be read back", w.m))
	}

	w.log.Debug("derive", zap.Int64("start", rng.Start), zap.Int64("end", rng.End))

	var out T
	err := w.restoring(func() error {
		if _, err := w.m.Seek(rng.Start, io.SeekStart); err != nil {
			return err
		}
		dr := &DeriveReader{r: io.LimitedReader{R: src, N: rng.Len()}, rng: rng}
		var err error
		out, err = fn(dr)
		return err
	})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// DeriveBytes returns a copy of the bytes written in rng.
func DeriveBytes(w *Writer, rng Range) ([]byte, error) {
	return Derive(w, rng, func(r *DeriveReader) ([]byte, error) {
		return io.ReadAll(r)
	})
}

// DeriveHash feeds the bytes written in rng to h and returns its sum.
// h is reset first.
func DeriveHash(w *Writer, rng Range, h hash.Hash) ([]byte, error) {
	return Derive(w, rng, func(r *DeriveReader) ([]byte, error) {
		h.Reset()
		if _, err := io.Copy(h, r); err != nil {
			return nil, err
		}
		return h.Sum(nil), nil
	})
}
