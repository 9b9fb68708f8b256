// Package diag implements the error-handling design from spec.md §7:
// a single diagnostic type carrying file/line/column plus a
// caret-annotated excerpt of the offending source line, and the
// package-level structured logger every other package reports
// lifecycle events through.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind names one of the fixed error kinds from spec.md §7. These are
// kinds, not Go type names, so a single Error struct carries all of
// them and callers branch on Kind when they need to.
type Kind string

const (
	KindParseError         Kind = "parse-error"
	KindLookupError        Kind = "lookup-error"
	KindRedefinitionError  Kind = "redefinition-error"
	KindTypeMismatch       Kind = "type-mismatch"
	KindArityMismatch      Kind = "arity-mismatch"
	KindIndexOutOfBounds   Kind = "index-out-of-bounds"
	KindIndexNotInteger    Kind = "index-not-integer"
	KindImmutableAssign    Kind = "immutable-assign"
	KindDivideByZero       Kind = "divide-by-zero"
	KindShiftNegative      Kind = "shift-negative"
	KindReservedWord       Kind = "reserved-word"
	KindStatementRequired  Kind = "statement-required"
	KindIOError            Kind = "io-error"
	KindHostError          Kind = "host-error"
	KindEvaluatorBug       Kind = "evaluator-bug"
)

// Error is the single diagnostic type every evaluator and parser
// failure is reported as.
type Error struct {
	Kind    Kind
	File    string
	Line    int
	Column  int
	Msg     string
	Excerpt string
	cause   error
}

func (e *Error) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s\n%s", e.File, e.Line, e.Column, e.Kind, e.Msg, e.Excerpt)
}

func (e *Error) Unwrap() error { return e.cause }

// excerpt renders source's line-th line (1-based) followed by a
// caret line pointing at column (1-based). Missing lines render no
// excerpt rather than panicking.
func excerpt(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	src := lines[line-1]
	col := column
	if col < 1 {
		col = 1
	}
	if col > len(src)+1 {
		col = len(src) + 1
	}
	caret := strings.Repeat(" ", col-1) + "^"
	return src + "\n" + caret
}

// New builds a fresh diagnostic at (file,line,column), with a caret
// excerpt computed from source when available.
func New(kind Kind, file string, line, column int, source, msg string) *Error {
	e := &Error{Kind: kind, File: file, Line: line, Column: column, Msg: msg}
	e.Excerpt = excerpt(source, line, column)
	e.cause = errors.WithStack(errors.New(string(kind) + ": " + msg))
	return e
}

// Wrap builds a diagnostic around an existing error (e.g. a host
// callback failure reported as host-error, or an io error from the
// filesystem reported as io-error).
func Wrap(kind Kind, file string, line, column int, source string, cause error) *Error {
	e := &Error{Kind: kind, File: file, Line: line, Column: column, Msg: cause.Error()}
	e.Excerpt = excerpt(source, line, column)
	e.cause = errors.WithStack(cause)
	return e
}
