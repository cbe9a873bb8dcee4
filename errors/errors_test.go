package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindWidthMismatch,
				Path:   []string{"elf", "header", "shoff"},
				GoType: "pack.U16",
				Detail: "reserved 4 bytes, value packs to 2",
			},
			contains: []string{"[resolve]", "width_mismatch", "elf.header.shoff", "pack.U16", "reserved 4 bytes"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDerive,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[derive]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseFinalize,
				Kind:   KindInvalidData,
				Detail: "publish output",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[finalize]", "invalid_data", "publish output", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseFinalize,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindWidthMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindWidthMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseWrite, Kind: KindWidthMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindInvalidInput}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrWidthMismatch) {
		t.Error("errors.Is should match the phase-less sentinel")
	}
	if errors.Is(err, ErrForeignHandle) {
		t.Error("errors.Is should not match a sentinel of another kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhasePack, KindUnsupported).
		Path("section", "code").
		GoType("float32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "integer", "float").
		Build()

	if err.Phase != PhasePack {
		t.Errorf("Phase = %v, want %v", err.Phase, PhasePack)
	}
	if err.Kind != KindUnsupported {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
	}
	if len(err.Path) != 2 || err.Path[0] != "section" || err.Path[1] != "code" {
		t.Errorf("Path = %v, want [section code]", err.Path)
	}
	if err.GoType != "float32" {
		t.Errorf("GoType = %v, want 'float32'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected integer, got float" {
		t.Errorf("Detail = %v, want 'expected integer, got float'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseDerive, "range end precedes start")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("WidthMismatch", func(t *testing.T) {
		err := WidthMismatch(PhaseResolve, "pack.Bytes", 4, 7)
		if err.Kind != KindWidthMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindWidthMismatch)
		}
		if !strings.Contains(err.Detail, "4") || !strings.Contains(err.Detail, "7") {
			t.Errorf("Detail = %v, should contain both widths", err.Detail)
		}
		if err.GoType != "pack.Bytes" || err.Value != 7 {
			t.Errorf("GoType/Value = %v/%v", err.GoType, err.Value)
		}
	})

	t.Run("ForeignHandle", func(t *testing.T) {
		err := ForeignHandle(PhaseResolve, 3)
		if err.Kind != KindForeignHandle {
			t.Errorf("Kind = %v, want %v", err.Kind, KindForeignHandle)
		}
		if err.Value != 3 {
			t.Errorf("Value = %v, want 3", err.Value)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		err := UnsupportedType(PhasePack, 1.5)
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
		if err.GoType != "float64" {
			t.Errorf("GoType = %v, want 'float64'", err.GoType)
		}
		if err.Value != 1.5 {
			t.Errorf("Value = %v, want 1.5", err.Value)
		}
	})

	t.Run("Finalized", func(t *testing.T) {
		err := Finalized(PhaseWrite)
		if !errors.Is(err, ErrFinalized) {
			t.Errorf("expected finalized error, got %v", err)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseFormat, []string{"size"}, uint64(1<<40), "u32")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if len(err.Path) != 1 || err.Path[0] != "size" {
			t.Errorf("Path = %v, want [size]", err.Path)
		}
		if err.Value != uint64(1<<40) {
			t.Errorf("Value = %v", err.Value)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseFormat, []string{"checksum"}, "100% corrupt")
		if !errors.Is(err, ErrInvalidData) {
			t.Errorf("expected invalid data error, got %v", err)
		}
		if len(err.Path) != 1 || err.Path[0] != "checksum" {
			t.Errorf("Path = %v, want [checksum]", err.Path)
		}
		if err.Detail != "100% corrupt" {
			t.Errorf("Detail = %q, should be kept verbatim", err.Detail)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap(PhaseFinalize, KindInvalidData, cause, "rename")
		if !errors.Is(err, cause) {
			t.Error("wrapped error should match its cause")
		}
	})
}
