package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse  Phase = "parse"  // line grammar and layout building
	PhaseVerify Phase = "verify" // size consistency checks
	PhaseLoad   Phase = "load"   // opening the report source
	PhaseConfig Phase = "config" // configuration loading
	PhaseReport Phase = "report" // rendering results
)

// Kind categorizes the error
type Kind string

const (
	KindStructSize     Kind = "struct_size_mismatch"
	KindVariantSize    Kind = "variant_size_mismatch"
	KindUnionSize      Kind = "union_size_mismatch"
	KindEnumSize       Kind = "enum_size_mismatch"
	KindUnhandledLines Kind = "unhandled_lines"
	KindIO             Kind = "io"
	KindInvalidConfig  Kind = "invalid_config"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Path     []string
	Expected uint64
	Actual   uint64
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
		b.WriteString(strings.Join(e.Path, "::"))
	}

	if e.isMismatch() {
		fmt.Fprintf(&b, ": expected %d, got %d", e.Expected, e.Actual)
	}

	if e.Detail != "" {
		if e.isMismatch() {
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

// Reason returns the short sentence reports print for a defect.
func (e *Error) Reason() string {
	switch e.Kind {
	case KindStructSize:
		return fmt.Sprintf("mismatch struct size (expected: %d, actual: %d)", e.Expected, e.Actual)
	case KindVariantSize:
		return fmt.Sprintf("mismatch variant size (name: %s, expected: %d, actual: %d)", e.Variant(), e.Expected, e.Actual)
	case KindUnionSize:
		return fmt.Sprintf("mismatch union size (expected: %d, actual: %d)", e.Expected, e.Actual)
	case KindEnumSize:
		return fmt.Sprintf("mismatch enum size (expected: %d, calculated_min: %d)", e.Expected, e.Actual)
	case KindUnhandledLines:
		return "unhandled lines found"
	default:
		return e.Error()
	}
}

// Variant returns the variant name of a variant size mismatch, or "".
func (e *Error) Variant() string {
	if e.Kind != KindVariantSize || len(e.Path) < 2 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

func (e *Error) isMismatch() bool {
	switch e.Kind {
	case KindStructSize, KindVariantSize, KindUnionSize, KindEnumSize:
		return true
	}
	return false
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Path sets the type path (layout name, then variant name)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Sizes sets the expected and actual byte counts
func (b *Builder) Sizes(expected, actual uint64) *Builder {
	b.err.Expected = expected
	b.err.Actual = actual
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

// Convenience constructors for common error patterns

// StructSizeMismatch creates a struct size defect: the entries of the
// layout sum to actual bytes instead of the declared expected bytes.
func StructSizeMismatch(layout string, expected, actual uint64) *Error {
	return &Error{
		Phase:    PhaseVerify,
		Kind:     KindStructSize,
		Path:     []string{layout},
		Expected: expected,
		Actual:   actual,
	}
}

// VariantSizeMismatch creates a variant size defect
func VariantSizeMismatch(layout, variant string, expected, actual uint64) *Error {
	return &Error{
		Phase:    PhaseVerify,
		Kind:     KindVariantSize,
		Path:     []string{layout, variant},
		Expected: expected,
		Actual:   actual,
	}
}

// UnionSizeMismatch creates a union size defect; actual is the largest field.
func UnionSizeMismatch(layout string, expected, actualMax uint64) *Error {
	return &Error{
		Phase:    PhaseVerify,
		Kind:     KindUnionSize,
		Path:     []string{layout},
		Expected: expected,
		Actual:   actualMax,
	}
}

// EnumTotalSizeMismatch creates an enum total size defect; actual is the
// additive minimum (discriminant plus largest variant).
func EnumTotalSizeMismatch(layout string, expected, calculatedMin uint64) *Error {
	return &Error{
		Phase:    PhaseVerify,
		Kind:     KindEnumSize,
		Path:     []string{layout},
		Expected: expected,
		Actual:   calculatedMin,
	}
}

// UnhandledLines creates an error listing marker lines no rule matched
func UnhandledLines(layout string, lines []string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnhandledLines,
		Path:   []string{layout},
		Detail: fmt.Sprintf("%d unhandled line(s)", len(lines)),
		Value:  lines,
	}
}

// IO creates an I/O failure error
func IO(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: what,
		Cause:  cause,
	}
}

// InvalidConfig creates a configuration error for the named key
func InvalidConfig(key string, value any, reason string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Path:   []string{key},
		Detail: reason,
		Value:  value,
	}
}
