package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseArchive  Phase = "archive"  // container decoding
	PhaseValidate Phase = "validate" // cross-archive checks
	PhaseDecode   Phase = "decode"   // record decoding
	PhaseProject  Phase = "project"  // row projection
	PhaseExport   Phase = "export"   // file reads and writes
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindFormat          Kind = "format"
	KindCountMismatch   Kind = "count_mismatch"
	KindSchemaViolation Kind = "schema_violation"
	KindIO              Kind = "io"
	KindInvalidConfig   Kind = "invalid_config"
)

// Error is the structured error type used throughout rom-export
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
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

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
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

// Format creates a malformed-container error
func Format(detail string, args ...any) *Error {
	return New(PhaseArchive, KindFormat).Detail(detail, args...).Build()
}

// CountMismatch creates an error for archives whose member counts differ
func CountMismatch(properties, party int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindCountMismatch,
		Detail: fmt.Sprintf("properties/party file count mismatch: properties_file_count=%d party_file_count=%d", properties, party),
		Value:  [2]int{properties, party},
	}
}

// SchemaViolation creates a structural record error for one trainer
func SchemaViolation(trainerID int, detail string, args ...any) *Error {
	return New(PhaseDecode, KindSchemaViolation).
		Path(TrainerPath(trainerID)).
		Value(trainerID).
		Detail(detail, args...).
		Build()
}

// IO creates a file access error
func IO(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		Path:  []string{path},
		Cause: cause,
	}
}

// InvalidConfig creates a configuration error for the given key
func InvalidConfig(key, detail string, args ...any) *Error {
	return New(PhaseConfig, KindInvalidConfig).Path(key).Detail(detail, args...).Build()
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

// TrainerPath formats a trainer id as a path element
func TrainerPath(id int) string {
	return fmt.Sprintf("trainer_id %d", id)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsFatal reports whether err aborts an export run.
// Format, count and schema errors are fatal; so are I/O failures.
func IsFatal(err error) bool {
	switch KindOf(err) {
	case KindFormat, KindCountMismatch, KindSchemaViolation, KindIO:
		return true
	}
	return false
}
