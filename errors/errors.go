package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild    Phase = "build"    // module construction
	PhaseValidate Phase = "validate" // builder to browser validation
	PhaseEncode   Phase = "encode"   // module to binary
	PhaseDecode   Phase = "decode"   // binary to module
	PhaseBrowse   Phase = "browse"   // validated module access
	PhaseCAPI     Phase = "capi"     // foreign-call handle surface
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidIdentifier  Kind = "invalid_identifier"
	KindAlreadyConsumed    Kind = "already_consumed"
	KindAlreadyDisposed    Kind = "already_disposed"
	KindMalformedModule    Kind = "malformed_module"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindValidation         Kind = "validation"
	KindWrongKind          Kind = "wrong_kind"
	KindOutOfRange         Kind = "out_of_range"
	KindDuplicateSymbol    Kind = "duplicate_symbol"
	KindInvalidUTF8        Kind = "invalid_utf8"
	KindInvalidHandle      Kind = "invalid_handle"
	KindIO                 Kind = "io"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int // byte offset for decode errors, zero when not applicable
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

	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Path sets the field path
func (b *Builder) Path(elems ...string) *Builder {
	b.err.Path = elems
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
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

// InvalidIdentifier creates an invalid identifier error
func InvalidIdentifier(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidIdentifier,
		Detail: detail,
	}
}

// AlreadyConsumed creates an error for operations on a consumed builder
func AlreadyConsumed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyConsumed,
		Detail: "module builder was consumed by validation",
	}
}

// Malformed creates a decode-time structural violation error
func Malformed(offset int, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedModule,
		Offset: offset,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnsupportedVersion creates an error for unreadable format versions
func UnsupportedVersion(major, minor uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupportedVersion,
		Detail: fmt.Sprintf("format version %d.%d is not supported", major, minor),
		Value:  [2]uint8{major, minor},
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// WrongKind creates an error for kind-mismatched accessor use
func WrongKind(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongKind,
		Detail: fmt.Sprintf("entry is %s, not %s", got, want),
	}
}

// OutOfRange creates an index out of range error
func OutOfRange(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// DuplicateSymbol creates a duplicate symbol name error
func DuplicateSymbol(name string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindDuplicateSymbol,
		Detail: fmt.Sprintf("symbol %q is assigned more than once", name),
	}
}

// InvalidHandle creates an error for use of a disposed or unknown handle
func InvalidHandle(what string) *Error {
	return &Error{
		Phase:  PhaseCAPI,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%s handle is not valid (disposed or never created)", what),
	}
}

// IO wraps a sink or source failure
func IO(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: "i/o failure",
		Cause:  cause,
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
