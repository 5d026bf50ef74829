package models

import "github.com/toyz/wasmexport/internal/source"

// Attribute represents one outer attribute or doc comment as written in source
type Attribute struct {
	Path      string      // attribute path, e.g. "wasm_export", "doc", "cfg_attr"
	Args      string      // text between the argument delimiters, without them
	ArgsSpan  source.Span // span of Args in the source text
	Delimited bool        // true when written with a delimited list, e.g. #[foo(...)]
	Text      string      // full attribute text, e.g. `#[foo(bar)]` or `/// docs`
	Span      source.Span // span of Text in the source text
	Doc       bool        // doc comment or #[doc = ...]
}

// IsDirective reports whether the attribute is an invocation of the named directive
func (a Attribute) IsDirective(name string) bool {
	return !a.Doc && a.Path == name
}

// FilterAttributes returns a fresh slice holding the attributes for which keep returns true
func FilterAttributes(attrs []Attribute, keep func(Attribute) bool) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, attr := range attrs {
		if keep(attr) {
			out = append(out, attr)
		}
	}
	return out
}

// DirectiveAttributes returns the attributes that invoke the named directive
func DirectiveAttributes(attrs []Attribute, name string) []Attribute {
	return FilterAttributes(attrs, func(a Attribute) bool { return a.IsDirective(name) })
}

// WithoutDirective returns a copy of attrs with every invocation of the named directive removed
func WithoutDirective(attrs []Attribute, name string) []Attribute {
	return FilterAttributes(attrs, func(a Attribute) bool { return !a.IsDirective(name) })
}

// DocAttributes returns the doc comments among attrs
func DocAttributes(attrs []Attribute) []Attribute {
	return FilterAttributes(attrs, func(a Attribute) bool { return a.Doc })
}

// NewAttribute builds an attribute from its path and argument text, the way it
// would be written as `#[path(args)]`. An empty args yields `#[path]`.
func NewAttribute(path, args string) Attribute {
	attr := Attribute{Path: path, Args: args}
	if args == "" {
		attr.Text = "#[" + path + "]"
		return attr
	}
	attr.Delimited = true
	attr.Text = "#[" + path + "(" + args + ")]"
	return attr
}
