// Package modeltest builds declaration models for tests without going
// through a source parser.
package modeltest

import (
	"strings"

	"github.com/toyz/wasmexport/internal/models"
)

// FunctionBuilder provides a fluent interface for building function declarations
// without going through a source parser
type FunctionBuilder struct {
	fn *models.Function
}

// NewFunction creates a builder for a function with the given name and inherited visibility
func NewFunction(name string) *FunctionBuilder {
	return &FunctionBuilder{fn: &models.Function{Name: name, Body: "{}"}}
}

// Public marks the function `pub`
func (b *FunctionBuilder) Public() *FunctionBuilder {
	b.fn.Vis = models.Visibility{Kind: models.VisibilityPublic, Text: "pub"}
	return b
}

// Visibility sets an explicit visibility modifier
func (b *FunctionBuilder) Visibility(kind models.VisibilityKind, text string) *FunctionBuilder {
	b.fn.Vis = models.Visibility{Kind: kind, Text: text}
	return b
}

// Async marks the function `async`
func (b *FunctionBuilder) Async() *FunctionBuilder {
	b.fn.Async = true
	if b.fn.Qualifiers == "" {
		b.fn.Qualifiers = "async"
	} else {
		b.fn.Qualifiers += " async"
	}
	return b
}

// WithAttributes appends outer attributes
func (b *FunctionBuilder) WithAttributes(attrs ...models.Attribute) *FunctionBuilder {
	b.fn.Attrs = append(b.fn.Attrs, attrs...)
	return b
}

// WithReceiver appends a receiver parameter such as "&self"
func (b *FunctionBuilder) WithReceiver(text string) *FunctionBuilder {
	b.fn.Params = append(b.fn.Params, models.Param{Receiver: true, Pattern: text})
	return b
}

// WithParam appends a typed parameter
func (b *FunctionBuilder) WithParam(pattern, typ string, attrs ...models.Attribute) *FunctionBuilder {
	b.fn.Params = append(b.fn.Params, models.Param{Pattern: pattern, Type: typ, Attrs: attrs})
	return b
}

// WithGenerics sets the generic parameter list, including angle brackets
func (b *FunctionBuilder) WithGenerics(generics string) *FunctionBuilder {
	b.fn.Generics = generics
	return b
}

// Returns sets the return type
func (b *FunctionBuilder) Returns(output string) *FunctionBuilder {
	b.fn.Output = output
	return b
}

// WithWhere sets the where clause
func (b *FunctionBuilder) WithWhere(where string) *FunctionBuilder {
	b.fn.Where = where
	return b
}

// WithBody sets the block, including braces
func (b *FunctionBuilder) WithBody(body string) *FunctionBuilder {
	b.fn.Body = body
	return b
}

// Build returns the constructed function
func (b *FunctionBuilder) Build() *models.Function {
	return b.fn.Clone()
}

// NewDocComment builds a `///` doc comment attribute
func NewDocComment(line string) models.Attribute {
	text := "///"
	if line != "" {
		text += " " + strings.TrimRight(line, "\n")
	}
	return models.Attribute{Path: "doc", Text: text, Doc: true}
}
