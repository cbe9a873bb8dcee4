package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/wippyai/binbin"
	"github.com/wippyai/binbin/endian"
	"github.com/wippyai/binbin/format/wasm"
)

func TestDumpPlain(t *testing.T) {
	data := []byte("ABCDEFGHIJKLMNOPQR\x00\xff")
	d := &dumper{plain: true}

	got := d.dump(data, -1)
	want := "00000000  41 42 43 44 45 46 47 48  49 4a 4b 4c 4d 4e 4f 50  |ABCDEFGHIJKLMNOP|\n" +
		"00000010  51 52 00 ff                                       |QR..|\n"
	if got != want {
		t.Errorf("dump mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestDumpEmpty(t *testing.T) {
	d := &dumper{plain: true}
	if got := d.dump(nil, -1); got != "" {
		t.Errorf("empty dump = %q", got)
	}
}

func TestRegionAt(t *testing.T) {
	d := &dumper{regions: []region{
		{label: "outer", rng: binbin.Range{Start: 0, End: 10}},
		{label: "inner", rng: binbin.Range{Start: 4, End: 6}},
	}}

	tests := []struct {
		off  int64
		want int
	}{
		{0, 0},
		{4, 1},
		{5, 1},
		{6, 0},
		{9, 0},
		{10, -1},
	}
	for _, tt := range tests {
		if got := d.regionAt(tt.off); got != tt.want {
			t.Errorf("regionAt(%d) = %d, want %d", tt.off, got, tt.want)
		}
	}
}

func TestLegendPlain(t *testing.T) {
	d := &dumper{plain: true, regions: []region{
		{label: "preamble", rng: binbin.Range{Start: 0, End: 8}},
		{label: "type", rng: binbin.Range{Start: 8, End: 21}},
	}}
	lines := strings.Split(strings.TrimSuffix(d.legend(1), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d legend lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "  preamble") || !strings.HasSuffix(lines[0], "8 bytes") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "> type") || !strings.Contains(lines[1], "[0x8, 0x15)") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestBuildArtifactRegionsCoverOutput(t *testing.T) {
	for _, format := range []string{"wasm", "elf"} {
		t.Run(format, func(t *testing.T) {
			a, err := buildArtifact(format, endian.Big, true)
			if err != nil {
				t.Fatalf("buildArtifact failed: %v", err)
			}
			if len(a.regions) == 0 {
				t.Fatal("no regions")
			}
			last := a.regions[len(a.regions)-1]
			if last.rng.End != int64(len(a.data)) {
				t.Errorf("last region %q ends at %d, artifact is %d bytes", last.label, last.rng.End, len(a.data))
			}
			for _, r := range a.regions {
				if r.rng.Start > r.rng.End || r.rng.End > int64(len(a.data)) {
					t.Errorf("region %q has bad range %v", r.label, r.rng)
				}
			}
		})
	}

	if _, err := buildArtifact("pe", endian.Little, false); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestWriteArtifactMatchesEncoding(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/out", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, format := range []string{"wasm", "elf"} {
		a, err := buildArtifact(format, endian.Big, true)
		if err != nil {
			t.Fatalf("buildArtifact(%s) failed: %v", format, err)
		}
		name := "/out/sample." + format
		if err := writeArtifact(fs, name, a); err != nil {
			t.Fatalf("writeArtifact(%s) failed: %v", format, err)
		}
		got, err := afero.ReadFile(fs, name)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if !bytes.Equal(got, a.data) {
			t.Errorf("%s: file differs from encoded artifact", format)
		}
	}
}

func TestCallExport(t *testing.T) {
	a, err := buildArtifact("wasm", endian.Little, true)
	if err != nil {
		t.Fatalf("buildArtifact failed: %v", err)
	}
	if found, err := wasm.VerifyChecksum(a.data); !found || err != nil {
		t.Fatalf("VerifyChecksum = %v, %v", found, err)
	}

	ctx := context.Background()
	out, err := callExport(ctx, a.data, "add", []string{"2", "0x28"})
	if err != nil {
		t.Fatalf("callExport failed: %v", err)
	}
	if out != "add([2 0x28]) = [42]" {
		t.Errorf("output = %q", out)
	}

	if _, err := callExport(ctx, a.data, "mul", nil); err == nil {
		t.Error("missing export should fail")
	}
	if _, err := callExport(ctx, a.data, "add", []string{"two", "3"}); err == nil {
		t.Error("bad argument should fail")
	}
}

func TestParseEndian(t *testing.T) {
	tests := []struct {
		in   string
		want endian.Endian
	}{
		{"little", endian.Little},
		{"le", endian.Little},
		{"big", endian.Big},
		{"be", endian.Big},
	}
	for _, tt := range tests {
		got, err := parseEndian(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseEndian(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := parseEndian("middle"); err == nil {
		t.Error("unknown order should fail")
	}
}
