package binbin_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/pack"
)

func TestWriteFilePublishes(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/out", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	n, err := binbin.WriteFile(fs, "/out/blob.bin", endian.Big, func(w *binbin.Writer) (int64, error) {
		size, err := binbin.WriteDeferred(w, pack.U16(0))
		if err != nil {
			return 0, err
		}
		body, err := w.Subregion(func(w *binbin.Writer) error {
			_, err := w.Write(pack.Bytes("abc"))
			return err
		})
		if err != nil {
			return 0, err
		}
		if _, err := binbin.Resolve(w, size, pack.U16(body.Len())); err != nil {
			return 0, err
		}
		got, err := binbin.DeriveBytes(w, body)
		if err != nil {
			return 0, err
		}
		if string(got) != "abc" {
			t.Errorf("DeriveBytes on file: got %q", got)
		}
		return w.Position()
	})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != 5 {
		t.Errorf("position: got %d, want 5", n)
	}

	data, err := afero.ReadFile(fs, "/out/blob.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []byte{0x00, 0x03, 'a', 'b', 'c'}; !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}

	entries, err := afero.ReadDir(fs, "/out")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the published file, found %d entries", len(entries))
	}
}

func TestWriteFileFailureLeavesTargetUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/out/blob.bin", []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	boom := errors.New("boom")
	_, err := binbin.WriteFile(fs, "/out/blob.bin", endian.Little, func(w *binbin.Writer) (struct{}, error) {
		w.Write(pack.Bytes("partial"))
		return struct{}{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	data, err := afero.ReadFile(fs, "/out/blob.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "old" {
		t.Errorf("target modified: %q", data)
	}

	entries, _ := afero.ReadDir(fs, "/out")
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}
