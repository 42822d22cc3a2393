// Package errors provides structured error types for the wasm-signature module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, wire type name, and cause chain.
//
// Three phases carry the protocol's error contract:
//
//	PhaseValidate  a validated setter rejected a value, no state was changed
//	PhaseDecode    a buffer was malformed, truncated or carried an unexpected tag
//	PhaseProtocol  the other side of the boundary answered with an error payload
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("user", "age").
//		Type("int32").
//		Detail("got string").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Pattern(path, `^[a-z]+$`, value)
//	err := errors.Underrun(path, 8, 3)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Kind matches every error of its Phase.
package errors
