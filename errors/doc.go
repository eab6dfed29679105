// Package errors provides structured error types for the greet-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The bridge itself defines no domain errors: everything here
// describes failures of the bridging layer, such as a guest allocation
// failing during the string handoff.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindTypeMismatch).
//		GoType("int").
//		Detail("unsupported argument type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(errors.PhaseCall, 14)
//	err := errors.NotFound(errors.PhaseCall, "function", "greet")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
