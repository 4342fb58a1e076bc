// Package asmerr defines the diagnostic types shared by the stages of the
// assembler: preprocessor, line parser, first pass, and second pass.
package asmerr

import (
	"fmt"
	"strings"
)

// Position identifies a location in a source file. Column is 1-based and
// counts bytes, not runes; Line is 1-based and counts lines of the original
// .as source (expanded macro body lines carry the line of the macro's call).
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Kind categorizes a diagnostic by the pipeline stage that raised it.
type Kind int

const (
	KindFileAccess Kind = iota
	// KindAlloc is reserved for parity with the original C implementation's
	// validated_memory_allocation fatal-abort path. Go's runtime panics on
	// allocation failure rather than returning an error, so nothing in this
	// assembler ever constructs a KindAlloc value; it exists so Kind's
	// cases line up with the taxonomy this assembler was distilled from.
	KindAlloc
	KindPreprocessor
	KindSyntax
	KindSemantic
	KindEncoding
	KindUnresolvedEntry
)

func (k Kind) String() string {
	switch k {
	case KindFileAccess:
		return "file access"
	case KindAlloc:
		return "allocation"
	case KindPreprocessor:
		return "preprocessor"
	case KindSyntax:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindEncoding:
		return "encoding"
	case KindUnresolvedEntry:
		return "unresolved entry"
	default:
		return "unknown"
	}
}

// Error is a single diagnostic, positioned in its source file.
type Error struct {
	Pos     Position
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[Compilation Error] [File: %q, Line: %d] %s.", e.Pos.File, e.Pos.Line, e.Message)
}

// New builds an *Error at pos with the given kind and a printf-style message.
func New(pos Position, kind Kind, format string, args ...any) *Error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// List accumulates diagnostics across an entire file. The preprocessor and
// line parser report into the List ParseProgram returns; the two passes
// share one List per translation unit so a failure in the first pass does not prevent
// the second pass's own errors (for a different line) from being reported in
// the same run, matching the original assembler's "collect everything, then
// decide whether to emit output" behavior.
type List struct {
	Errors []*Error
}

// Add appends err to the list. A nil err is a no-op so callers can write
// `list.Add(checkSomething())` without a preceding nil check.
func (l *List) Add(err *Error) {
	if err == nil {
		return
	}
	l.Errors = append(l.Errors, err)
}

// Addf constructs and appends an *Error in one call.
func (l *List) Addf(pos Position, kind Kind, format string, args ...any) {
	l.Add(New(pos, kind, format, args...))
}

// HasErrors reports whether any diagnostic has been recorded.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error renders every diagnostic, one per line, in recording order.
func (l *List) Error() string {
	var sb strings.Builder
	for _, e := range l.Errors {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
