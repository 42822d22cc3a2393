package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // model to wire
	PhaseDecode   Phase = "decode"   // wire to model
	PhaseValidate Phase = "validate" // accessor rules
	PhaseSchema   Phase = "schema"   // descriptor and schema checks
	PhaseProtocol Phase = "protocol" // host/guest envelope
	PhaseRuntime  Phase = "runtime"  // guest execution
	PhaseLoad     Phase = "load"     // module loading
	PhaseParse    Phase = "parse"    // schema file parsing
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnderrun       Kind = "underrun"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidData    Kind = "invalid_data"
	KindOverflow       Kind = "overflow"
	KindInvalidEnum    Kind = "invalid_enum"
	KindTrailing       Kind = "trailing_data"
	KindPattern        Kind = "pattern"
	KindLength         Kind = "length"
	KindRange          Kind = "range"
	KindFieldMissing   Kind = "field_missing"
	KindFieldUnknown   Kind = "field_unknown"
	KindDuplicate      Kind = "duplicate"
	KindRemote         Kind = "remote"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindInstantiation  Kind = "instantiation"
	KindPanic          Kind = "panic"
	KindTrap           Kind = "trap"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
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

// Is reports whether target matches this error.
// A target with an empty Kind matches any error of the same Phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return e.Phase == t.Phase
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
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

// Type sets the wire or Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// Phase matchers for errors.Is

var (
	errValidation = &Error{Phase: PhaseValidate}
	errDecode     = &Error{Phase: PhaseDecode}
	errProtocol   = &Error{Phase: PhaseProtocol}
)

// IsValidation reports whether err is a validation failure raised by a setter.
func IsValidation(err error) bool {
	return stderrors.Is(err, errValidation)
}

// IsDecode reports whether err is a malformed, truncated or mistyped buffer.
func IsDecode(err error) bool {
	return stderrors.Is(err, errDecode)
}

// IsProtocol reports whether err was framed in-band by the remote side.
func IsProtocol(err error) bool {
	return stderrors.Is(err, errProtocol)
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   want,
		Detail: fmt.Sprintf("got %s", got),
	}
}

// Underrun creates a buffer underrun error
func Underrun(path []string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnderrun,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: what,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		Type:   enumType,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Trailing creates an error for bytes left after a complete value
func Trailing(n int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailing,
		Detail: fmt.Sprintf("%d unread bytes after value", n),
		Value:  n,
	}
}

// Pattern creates a pattern validation error
func Pattern(path []string, expr string, value any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindPattern,
		Path:   path,
		Detail: "value must match " + expr,
		Value:  value,
	}
}

// Length creates a length validation error
func Length(path []string, detail string, value any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindLength,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// Range creates a numeric range validation error
func Range(path []string, detail string, value any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindRange,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// Remote creates the error handed back to a caller when the other side of
// the boundary answered with an error payload.
func Remote(message string) *Error {
	return &Error{
		Phase:  PhaseProtocol,
		Kind:   KindRemote,
		Detail: message,
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// Duplicate creates a duplicate name error
func Duplicate(phase Phase, path []string, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Path:   path,
		Detail: fmt.Sprintf("duplicate %s %q", what, name),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d) outside memory of %d bytes", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// NotInitialized creates a not-initialized error for missing module/instance
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Panic creates an error for a recovered panic value
func Panic(phase Phase, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("panic: %v", value),
		Value:  value,
	}
}

// Trap creates an error for a guest call that aborted
func Trap(function string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTrap,
		Detail: fmt.Sprintf("call %s", function),
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
