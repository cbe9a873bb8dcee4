// Package errors provides structured error types for the binbin writer.
//
// Errors are categorized by Phase (which operation raised them) and Kind
// (error category). The Error type carries the offending Go type, a detail
// message, an optional field path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindWidthMismatch).
//		GoType("pack.ULEB128").
//		Value(3).
//		Detail("reserved %d bytes, value packs to %d", 5, 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Finalized(errors.PhaseWrite)
//	err := errors.Overflow(errors.PhaseFormat, nil, size, "u32 size")
//
// Failures of the underlying medium are not wrapped; callers compare them
// directly. Every Error supports errors.Is against the Err sentinels, which
// match on Kind alone.
package errors
