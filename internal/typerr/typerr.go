// Package typerr defines the coded errors returned by typelens lookups.
//
// Every public entry point fails with exactly one of the codes below, so
// callers (CLI, MCP server, embedders) can branch on the failure class
// without parsing messages.
package typerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a lookup failure.
type Code string

const (
	// CodeNotFound means the target file does not exist. Detected before
	// any parsing; never reaches the checker.
	CodeNotFound Code = "NOT_FOUND"

	// CodeProjectConfig means the project configuration (go.mod, the
	// package set, or the tool config) rejected the entry file or could
	// not be parsed.
	CodeProjectConfig Code = "PROJECT_CONFIG"

	// CodeSymbolNotFound means a name-based lookup matched no node.
	CodeSymbolNotFound Code = "SYMBOL_NOT_FOUND"

	// CodePositionNotFound means a position fell outside file bounds or
	// no syntax node enclosed it.
	CodePositionNotFound Code = "POSITION_NOT_FOUND"

	// CodeCheckerInternal means the type checker itself failed while
	// resolving or formatting type information.
	CodeCheckerInternal Code = "CHECKER_INTERNAL"
)

// Error is a coded lookup error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FileNotFound reports a missing target file.
func FileNotFound(path string) *Error {
	return New(CodeNotFound, "file not found: %s", path)
}

// SymbolNotFound reports a failed name lookup. line is included in the
// message when non-zero, matching the line hint the caller supplied.
func SymbolNotFound(file, name string, line int) *Error {
	if line > 0 {
		return New(CodeSymbolNotFound, "symbol %q not found at line %d in %s", name, line, file)
	}
	return New(CodeSymbolNotFound, "symbol %q not found in %s", name, file)
}

// PositionNotFound reports a position lookup that resolved to nothing.
func PositionNotFound(file string, line, column int) *Error {
	return New(CodePositionNotFound, "no symbol at %s:%d:%d", file, line, column)
}

// ProjectConfig reports a project configuration failure.
func ProjectConfig(err error, format string, args ...any) *Error {
	return Wrap(err, CodeProjectConfig, format, args...)
}

// internalMarkers are substrings that identify a checker-internal
// consistency failure rather than an ordinary type error.
var internalMarkers = []string{"internal error", "unreachable", "assertion failed", "unexpected"}

// CheckerInternal wraps a failure raised inside the type-checking layer.
// cause is typically a recovered panic value. When the cause looks like an
// internal consistency failure, remediation hints are appended.
func CheckerInternal(file string, line, column int, op string, cause any) *Error {
	err, ok := cause.(error)
	if !ok {
		err = fmt.Errorf("%v", cause)
	}
	msg := fmt.Sprintf("type checker failed while %s at %s:%d:%d", op, file, line, column)
	if looksInternal(err.Error()) {
		msg += " (try a different position, check the file for syntax errors, and verify the project's package set includes it)"
	}
	return Wrap(err, CodeCheckerInternal, "%s", msg)
}

func looksInternal(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range internalMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
