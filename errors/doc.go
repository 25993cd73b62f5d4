// Package errors provides structured error types for typesize.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the type path (layout, then variant), the expected and
// actual byte counts of a size defect, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseVerify, errors.KindStructSize).
//		Path("Foo").
//		Sizes(16, 12).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.StructSizeMismatch("Foo", 16, 12)
//	err := errors.VariantSizeMismatch("Option<u32>", "Some", 8, 4)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
