package errors

import (
	"fmt"

	"github.com/toyz/wasmexport/internal/source"
)

// DirectiveError reports a misplaced, malformed or repeated directive
type DirectiveError struct {
	*BaseError
	Key string // directive key as written, e.g. "skip"
}

// NewPlacementError creates an error for a directive attached where it is not allowed
func NewPlacementError(key, message string, span source.Span) *DirectiveError {
	err := &DirectiveError{
		BaseError: New(PlacementErrorCode, message).WithSpan(span),
		Key:       key,
	}
	err.WithContext("key", key)
	return err
}

// NewShapeError creates an error for a directive whose value has the wrong form
func NewShapeError(key, message string, span source.Span) *DirectiveError {
	err := &DirectiveError{
		BaseError: New(ShapeErrorCode, message).WithSpan(span),
		Key:       key,
	}
	err.WithContext("key", key)
	return err
}

// NewDuplicateError creates an error for a key repeated at one attachment point
func NewDuplicateError(key string, span source.Span) *DirectiveError {
	err := &DirectiveError{
		BaseError: Newf(DuplicateErrorCode, "duplicate `%s` attribute", key).WithSpan(span),
		Key:       key,
	}
	err.WithContext("key", key)
	err.WithSuggestion(fmt.Sprintf("remove one of the `%s` occurrences", key))
	return err
}

// SyntaxError reports source text that could not be parsed
type SyntaxError struct {
	*BaseError
	Token string // offending token, if known
}

// NewSyntaxError creates a syntax error anchored to span
func NewSyntaxError(message string, span source.Span) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithSpan(span),
	}
}

// WithToken records the offending token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	e.WithContext("token", token)
	return e
}

// ContractError reports a declaration that cannot be exported as written
type ContractError struct {
	*BaseError
	Declaration string // name of the offending function
}

// NewContractError creates a contract error for the named declaration
func NewContractError(declaration, message string, span source.Span) *ContractError {
	err := &ContractError{
		BaseError:   New(ContractErrorCode, message).WithSpan(span),
		Declaration: declaration,
	}
	err.WithContext("declaration", declaration)
	return err
}

// RoutingError reports a top-level item of an unsupported kind
type RoutingError struct {
	*BaseError
	ItemKind string // e.g. "struct", "enum", "trait impl"
}

// NewRoutingError creates a routing error for an item of the given kind
func NewRoutingError(itemKind, message string, span source.Span) *RoutingError {
	err := &RoutingError{
		BaseError: New(RoutingErrorCode, message).WithSpan(span),
		ItemKind:  itemKind,
	}
	err.WithContext("item_kind", itemKind)
	return err
}
