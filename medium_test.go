package binbin_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/internal/membuf"
	"github.com/wippyai/binbin/pack"
)

var errDisk = errors.New("disk on fire")

// faulty wraps a membuf.Buffer and fails selected operations.
type faulty struct {
	mb          *membuf.Buffer
	flushed     int
	failWrite   bool
	failAbsSeek bool
	failFlush   bool
}

func (f *faulty) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errDisk
	}
	return f.mb.Write(p)
}

func (f *faulty) Seek(off int64, whence int) (int64, error) {
	if f.failAbsSeek && whence == io.SeekStart {
		return 0, errDisk
	}
	return f.mb.Seek(off, whence)
}

func (f *faulty) Read(p []byte) (int, error) {
	return f.mb.Read(p)
}

func (f *faulty) Flush() error {
	f.flushed++
	if f.failFlush {
		return errDisk
	}
	return nil
}

func TestPlaceholderWriteFailureNotRecorded(t *testing.T) {
	f := &faulty{mb: membuf.New(nil), failWrite: true}
	w := binbin.New(f, endian.Little)
	d := binbin.NewDeferred(w, pack.U32(0))

	if _, err := binbin.WritePlaceholder(w, d); !errors.Is(err, errDisk) {
		t.Fatalf("expected medium error verbatim, got %v", err)
	}
	if d.Placeholders() != 0 {
		t.Errorf("failed placeholder was recorded: %d", d.Placeholders())
	}
}

func TestMediumErrorsReturnedVerbatim(t *testing.T) {
	f := &faulty{mb: membuf.New(nil), failWrite: true}
	w := binbin.New(f, endian.Little)

	if _, err := w.Write(pack.U8(1)); err != errDisk {
		t.Errorf("Write: got %v, want errDisk unwrapped", err)
	}
	if _, err := w.Skip(4); err != errDisk {
		t.Errorf("Skip: got %v, want errDisk unwrapped", err)
	}
}

func TestResolveSeekFailure(t *testing.T) {
	f := &faulty{mb: membuf.New(nil)}
	w := binbin.New(f, endian.Little)
	d, err := binbin.WriteDeferred(w, pack.U16(0))
	if err != nil {
		t.Fatalf("WriteDeferred: %v", err)
	}

	f.failAbsSeek = true
	if _, err := binbin.Resolve(w, d, pack.U16(1)); !errors.Is(err, errDisk) {
		t.Errorf("expected seek error, got %v", err)
	}
}

func TestFinalizeFlushes(t *testing.T) {
	f := &faulty{mb: membuf.New(nil)}
	_, err := binbin.WriteLE(f, func(w *binbin.Writer) (struct{}, error) {
		_, err := w.Write(pack.U16(0xabcd))
		return struct{}{}, err
	})
	if err != nil {
		t.Fatalf("WriteLE: %v", err)
	}
	if f.flushed != 1 {
		t.Errorf("flushed %d times, want 1", f.flushed)
	}
	if !bytes.Equal(f.mb.Bytes(), []byte{0xcd, 0xab}) {
		t.Errorf("got % x", f.mb.Bytes())
	}
}

func TestFinalizeFlushFailure(t *testing.T) {
	f := &faulty{mb: membuf.New(nil), failFlush: true}
	got, err := binbin.WriteBE(f, func(w *binbin.Writer) (int, error) {
		return 7, nil
	})
	if !errors.Is(err, errDisk) {
		t.Errorf("expected flush error, got %v", err)
	}
	if got != 0 {
		t.Errorf("expected zero result, got %d", got)
	}
}

func TestFunctionErrorSkipsFinalize(t *testing.T) {
	f := &faulty{mb: membuf.New(nil)}
	boom := errors.New("boom")
	_, err := binbin.WriteLE(f, func(w *binbin.Writer) (struct{}, error) {
		return struct{}{}, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if f.flushed != 0 {
		t.Errorf("flush ran after failure")
	}
}
