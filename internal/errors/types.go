package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/toyz/wasmexport/internal/source"
)

// ExportError defines the base interface for all wasmexport errors
type ExportError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	SourceSpan() source.Span
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Directive and declaration errors, surfaced as compile-time diagnostics
	SyntaxErrorCode
	PlacementErrorCode
	ShapeErrorCode
	DuplicateErrorCode
	ContractErrorCode
	RoutingErrorCode

	// Tooling errors
	TemplateErrorCode
	FileSystemErrorCode
	ConfigurationErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case PlacementErrorCode:
		return "PlacementError"
	case ShapeErrorCode:
		return "ShapeError"
	case DuplicateErrorCode:
		return "DuplicateError"
	case ContractErrorCode:
		return "ContractError"
	case RoutingErrorCode:
		return "RoutingError"
	case TemplateErrorCode:
		return "TemplateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	default:
		return "UnknownError"
	}
}

// IsDiagnostic reports whether the code describes a problem in the user's source
// rather than a failure of the tool itself
func (e ErrorCode) IsDiagnostic() bool {
	return e >= SyntaxErrorCode && e <= RoutingErrorCode
}

// SourceLocation represents where an error occurred in source code
type SourceLocation struct {
	File   string // file path where error occurred
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError provides a common implementation of the ExportError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // single-sentence diagnostic message
	Span        source.Span            // offending byte range in the source text
	Loc         SourceLocation         // resolved file position, set once a file is known
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Loc.IsEmpty() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Loc.String(), e.Message)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Location returns the source location where the error occurred
func (e *BaseError) Location() SourceLocation {
	return e.Loc
}

// SourceSpan returns the byte range the diagnostic is anchored to
func (e *BaseError) SourceSpan() source.Span {
	return e.Span
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

func (e *BaseError) locate(file *source.File) {
	if file == nil {
		return
	}
	pos := file.Position(e.Span.Start)
	e.Loc = SourceLocation{File: file.Name, Line: pos.Line, Column: pos.Column}
}

// WithSpan anchors the error to a byte range
func (e *BaseError) WithSpan(span source.Span) *BaseError {
	e.Span = span
	return e
}

// WithLocation adds location information to the error
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Hints:   make([]string, 0),
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Locate resolves the span of err against file so that Error() carries a
// file:line:col prefix. Errors that are not ExportErrors are returned unchanged.
func Locate(err error, file *source.File) error {
	var located interface{ locate(*source.File) }
	if stderrors.As(err, &located) {
		located.locate(file)
	}
	return err
}

// AsExportError extracts the first ExportError in err's chain
func AsExportError(err error) (ExportError, bool) {
	var exportErr ExportError
	if stderrors.As(err, &exportErr) {
		return exportErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first ExportError in err's chain
func CodeOf(err error) ErrorCode {
	if exportErr, ok := AsExportError(err); ok {
		return exportErr.ErrorCode()
	}
	return UnknownErrorCode
}

// MultipleErrors represents multiple errors collected together
type MultipleErrors struct {
	Errors []error
}

// Error implements the error interface
func (e *MultipleErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap exposes every collected error to errors.Is and errors.As
func (e *MultipleErrors) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the collection, ignoring nil
func (e *MultipleErrors) Add(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

// IsEmpty returns true if there are no errors
func (e *MultipleErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// HasCode returns true if any error of the specified type exists
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if CodeOf(err) == code {
			return true
		}
	}
	return false
}

// ErrorOrNil returns nil for an empty collection
func (e *MultipleErrors) ErrorOrNil() error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e
}

// NewMultipleErrors creates a new MultipleErrors collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{
		Errors: make([]error, 0),
	}
}
