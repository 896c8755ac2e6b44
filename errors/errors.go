package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the binding pipeline the error occurred
type Phase string

const (
	PhaseAnalysis Phase = "analysis" // registration and signature classification
	PhaseGenerate Phase = "generate" // boundary source emission
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseLoad     Phase = "load"     // host loading a module
	PhaseDispatch Phase = "dispatch" // system trampolines and query routines
	PhaseHost     Phase = "host"     // host callbacks and engine facade
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidSignature Kind = "invalid_signature"
	KindNotPlainData     Kind = "not_plain_data"
	KindDuplicate        Kind = "duplicate"
	KindUnknownType      Kind = "unknown_type"
	KindVersionMismatch  Kind = "version_mismatch"
	KindOutOfRange       Kind = "out_of_range"
	KindInvalidCallback  Kind = "invalid_callback"
	KindLayout           Kind = "layout"
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindNotInitialized   Kind = "not_initialized"
	KindFault            Kind = "fault"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	System string
	Type   string
	Detail string
	Arg    int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.System != "" {
		b.WriteString(" in ")
		b.WriteString(e.System)
		if e.Arg > 0 {
			fmt.Fprintf(&b, " arg %d", e.Arg-1)
		}
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// System sets the offending system name
func (b *Builder) System(name string) *Builder {
	b.err.System = name
	return b
}

// Arg sets the zero-based argument index within the system
func (b *Builder) Arg(index int) *Builder {
	b.err.Arg = index + 1
	return b
}

// Type sets the offending type identity
func (b *Builder) Type(name string) *Builder {
	b.err.Type = name
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

// InvalidSignature creates a system signature contract violation
func InvalidSignature(system string, arg int, detail string, args ...any) *Error {
	b := New(PhaseAnalysis, KindInvalidSignature).System(system).Detail(detail, args...)
	if arg >= 0 {
		b.Arg(arg)
	}
	return b.Build()
}

// UnknownType creates an unknown type identity error
func UnknownType(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Type:   name,
		Detail: "identity is not declared by this module",
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Type:   name,
		Detail: what + " registered twice",
	}
}

// OutOfRange creates an index out of range error
func OutOfRange(phase Phase, what string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("%s index %d out of range (length %d)", what, index, length),
		Value:  index,
	}
}

// VersionMismatch creates a protocol version mismatch error
func VersionMismatch(phase Phase, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindVersionMismatch,
		Detail: fmt.Sprintf("module targets protocol %s, host speaks %s", got, want),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
