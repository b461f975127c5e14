// Package errors contains the error types produced while building matchers
// and walking directories, plus helpers for stack traces.
//
// Most errors here are recoverable: they are attached to the directory entry
// or ignore file that produced them instead of aborting a traversal.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
)

// PartialError is a collection of otherwise independent errors, e.g. one
// per bad line of an ignore file whose other lines were still applied.
type PartialError struct {
	inner *multierror.Error
}

func (e *PartialError) Error() string {
	msgs := make([]string, 0, len(e.Errors()))
	for _, err := range e.Errors() {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "\n")
}

// Errors returns the wrapped errors.
func (e *PartialError) Errors() []error {
	if e == nil || e.inner == nil {
		return nil
	}

	return e.inner.WrappedErrors()
}

func (e *PartialError) Unwrap() []error {
	return e.Errors()
}

// PartialBuilder accumulates errors into a PartialError.
type PartialBuilder struct {
	inner *multierror.Error
}

// Push appends err. Nested partial errors are flattened.
func (b *PartialBuilder) Push(err error) {
	if partial, ok := err.(*PartialError); ok {
		b.inner = multierror.Append(b.inner, partial.Errors()...)
		return
	}

	b.inner = multierror.Append(b.inner, err)
}

// MaybePush appends err when it is not nil.
func (b *PartialBuilder) MaybePush(err error) {
	if err != nil {
		b.Push(err)
	}
}

// MaybePushIgnoreIO appends err unless it is nil or an I/O error.
func (b *PartialBuilder) MaybePushIgnoreIO(err error) {
	if err != nil && !IsIO(err) {
		b.Push(err)
	}
}

// Len returns the number of accumulated errors.
func (b *PartialBuilder) Len() int {
	if b.inner == nil {
		return 0
	}

	return len(b.inner.Errors)
}

// Err returns nil when empty, the only error when there is one, and a
// PartialError otherwise.
func (b *PartialBuilder) Err() error {
	switch b.Len() {
	case 0:
		return nil
	case 1:
		return b.inner.Errors[0]
	default:
		return &PartialError{inner: b.inner}
	}
}

// LineError tags an error with the 1-based line that produced it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// PathError tags an error with the file path that produced it.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *PathError) Unwrap() error { return e.Err }

// DepthError tags an error with the traversal depth it happened at.
type DepthError struct {
	Depth int
	Err   error
}

func (e *DepthError) Error() string { return e.Err.Error() }
func (e *DepthError) Unwrap() error { return e.Err }

// LoopError reports a symbolic link that points back to one of its ancestors.
type LoopError struct {
	Ancestor string
	Child    string
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("File system loop found: %s points to an ancestor %s", e.Child, e.Ancestor)
}

// IOError wraps an error from the operating system.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// GlobError reports a glob that failed to compile.
type GlobError struct {
	Glob string
	Err  string
}

func (e *GlobError) Error() string {
	if e.Glob == "" {
		return e.Err
	}

	return fmt.Sprintf("error parsing glob '%s': %s", e.Glob, e.Err)
}

// UnrecognizedFileTypeError reports a file type selection with no definition.
type UnrecognizedFileTypeError struct {
	Name string
}

func (e *UnrecognizedFileTypeError) Error() string {
	return "unrecognized file type: " + e.Name
}

// InvalidDefinitionError reports a malformed file type definition.
type InvalidDefinitionError struct{}

func (e *InvalidDefinitionError) Error() string {
	return "invalid definition (format is type:glob, e.g., html:*.html)"
}

// WithLine tags err with a line number. A nil err stays nil.
func WithLine(line int, err error) error {
	if err == nil {
		return nil
	}

	return &LineError{Line: line, Err: err}
}

// WithPath tags err with a path. A nil err stays nil.
func WithPath(path string, err error) error {
	if err == nil {
		return nil
	}

	return &PathError{Path: path, Err: err}
}

// WithDepth tags err with a traversal depth. A nil err stays nil.
func WithDepth(depth int, err error) error {
	if err == nil {
		return nil
	}

	return &DepthError{Depth: depth, Err: err}
}

// IO wraps an operating system error. A nil err stays nil.
func IO(err error) error {
	if err == nil {
		return nil
	}

	return &IOError{Err: err}
}

// IsIO reports whether err is an I/O error. A partial error counts only if
// it holds exactly one error and that error is I/O.
func IsIO(err error) bool {
	switch e := err.(type) {
	case *PartialError:
		errs := e.Errors()
		return len(errs) == 1 && IsIO(errs[0])
	case *LineError:
		return IsIO(e.Err)
	case *PathError:
		return IsIO(e.Err)
	case *DepthError:
		return IsIO(e.Err)
	case *IOError:
		return true
	case *fs.PathError:
		return true
	default:
		return false
	}
}

// Depth returns the traversal depth attached to err, if any.
func Depth(err error) (int, bool) {
	switch e := err.(type) {
	case *PathError:
		return Depth(e.Err)
	case *DepthError:
		return e.Depth, true
	default:
		return 0, false
	}
}

// Errorf creates a new error and wraps in an Error type that contains the stack trace.
//
// Stack frames are resolved without inline information, so Errorf and
// WithStackTrace must stay real frames for the caller to be recorded.
//
//go:noinline
func Errorf(message string, args ...interface{}) error {
	err := fmt.Errorf(message, args...)
	return goerrors.Wrap(err, 1)
}

// WithStackTrace wraps the given error in an Error type that contains the stack trace. If the given error already has a stack trace,
// it is used directly. If the given error is nil, return nil.
//
//go:noinline
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// ErrorWithStackTrace returns a string that contains both the error message and the callstack.
func ErrorWithStackTrace(err error) string {
	if err == nil {
		return ""
	}

	var goerr *goerrors.Error
	if errors.As(err, &goerr) {
		return goerr.ErrorStack()
	}

	return err.Error()
}
