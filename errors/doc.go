// Package errors provides structured error types for the il4il-go library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, byte offset
// for decode failures, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindMalformedModule).
//		Path("metadata").
//		Offset(14).
//		Detail("metadata section cut off mid-entry").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed(14, "truncated metadata entry")
//	err := errors.AlreadyConsumed(errors.PhaseBuild)
//
// All errors implement the standard error interface and support errors.Is/As;
// Is matches on the Phase and Kind pair.
package errors
