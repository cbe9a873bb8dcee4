package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which writer operation raised the error
type Phase string

const (
	PhasePack     Phase = "pack"     // value conversion and rendering
	PhaseWrite    Phase = "write"    // sequential writes and placeholders
	PhaseAlign    Phase = "align"    // padding and alignment
	PhaseResolve  Phase = "resolve"  // deferred slot patching
	PhaseDerive   Phase = "derive"   // read-back over written bytes
	PhaseFinalize Phase = "finalize" // flush and publish
	PhaseFormat   Phase = "format"   // format emitters built on the writer
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindWidthMismatch Kind = "width_mismatch"
	KindForeignHandle Kind = "foreign_handle"
	KindUnsupported   Kind = "unsupported"
	KindFinalized     Kind = "finalized"
	KindOverflow      Kind = "overflow"
	KindInvalidData   Kind = "invalid_data"
)

// Error is the structured error type raised by the writer engine.
// Medium I/O failures are never wrapped in an Error; they are returned as-is.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinels for errors.Is matching regardless of phase.
var (
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
	ErrWidthMismatch = &Error{Kind: KindWidthMismatch}
	ErrForeignHandle = &Error{Kind: KindForeignHandle}
	ErrUnsupported   = &Error{Kind: KindUnsupported}
	ErrFinalized     = &Error{Kind: KindFinalized}
	ErrOverflow      = &Error{Kind: KindOverflow}
	ErrInvalidData   = &Error{Kind: KindInvalidData}
)

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return New(phase, KindInvalidInput).Detail("%s", detail).Build()
}

// WidthMismatch creates an error for a value whose rendered length differs
// from the width reserved for it.
func WidthMismatch(phase Phase, goType string, want, got int) *Error {
	return New(phase, KindWidthMismatch).
		GoType(goType).
		Value(got).
		Detail("reserved %d bytes, value packs to %d", want, got).
		Build()
}

// ForeignHandle creates an error for a deferred handle used with a writer
// other than the one that opened it.
func ForeignHandle(phase Phase, slot int) *Error {
	return New(phase, KindForeignHandle).
		Value(slot).
		Detail("slot %d belongs to a different writer", slot).
		Build()
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return New(phase, KindUnsupported).Detail("%s", what).Build()
}

// UnsupportedType creates an error for a Go value with no packed form
func UnsupportedType(phase Phase, v any) *Error {
	return New(phase, KindUnsupported).
		GoType(fmt.Sprintf("%T", v)).
		Value(v).
		Detail("no packed representation").
		Build()
}

// Finalized creates an error for use of a writer after Finalize
func Finalized(phase Phase) *Error {
	return New(phase, KindFinalized).Detail("writer already finalized").Build()
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return New(phase, KindOverflow).
		Path(path...).
		Value(value).
		Detail("value %v overflows %s", value, target).
		Build()
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return New(phase, KindInvalidData).Path(path...).Detail("%s", detail).Build()
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Detail("%s", detail).Build()
}
