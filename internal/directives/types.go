package directives

import (
	"fmt"

	"github.com/toyz/wasmexport/internal/source"
)

// Kind identifies a directive recognized by the expander. Every key that is
// not in the registry is carried as Forwarded.
type Kind int

const (
	Forwarded Kind = iota
	Skip
	UncheckedReturnType
	PreserveJSClass
	ReturnDescription
	ParamDescription
	UncheckedParamType
	JSName
)

var kindNames = map[Kind]string{
	Forwarded:           "forwarded",
	Skip:                "skip",
	UncheckedReturnType: "unchecked_return_type",
	PreserveJSClass:     "preserve_js_class",
	ReturnDescription:   "return_description",
	ParamDescription:    "param_description",
	UncheckedParamType:  "unchecked_param_type",
	JSName:              "js_name",
}

// String returns the directive key of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a directive key into its Kind
func ParseKind(s string) (Kind, error) {
	for kind, name := range kindNames {
		if name == s && kind != Forwarded {
			return kind, nil
		}
	}
	return Forwarded, fmt.Errorf("unknown directive key: %s", s)
}

// Context is the attachment point a directive list was written at
type Context int

const (
	// GroupContext is the directive list on an impl block
	GroupContext Context = iota
	// MemberContext is a directive attribute on a method inside an impl block
	MemberContext
	// StandaloneContext is the directive list on a free function
	StandaloneContext
	// ParamContext is a directive attribute on a typed parameter
	ParamContext
	// ReceiverContext is a directive attribute on a self parameter, where nothing is allowed
	ReceiverContext
)

// String returns a human readable name for the context
func (c Context) String() string {
	switch c {
	case GroupContext:
		return "impl block"
	case MemberContext:
		return "impl block method"
	case StandaloneContext:
		return "standalone function"
	case ParamContext:
		return "function parameter"
	case ReceiverContext:
		return "self receiver"
	default:
		return "unknown"
	}
}

// Shape is the syntactic form a recognized key accepts
type Shape int

const (
	// ShapeBare accepts only the bare path, e.g. `skip`
	ShapeBare Shape = iota
	// ShapeString accepts only `key = "literal"`
	ShapeString
)

// Form is the syntactic form a meta was written in
type Form int

const (
	FormPath Form = iota
	FormNameValue
	FormList
)

// Directive is one parsed entry of a directive argument list
type Directive struct {
	Kind      Kind
	Key       string      // path as written, e.g. "js_name" or "wasm_bindgen::skip"
	Form      Form        // how the entry was written
	Value     string      // unescaped contents for string valued directives
	Literal   string      // value token as written, including quotes
	Raw       string      // the whole entry as written, forwarded verbatim
	Span      source.Span // span of the whole entry
	ValueSpan source.Span // span of the value, zero for bare entries
}

// IsForwarded reports whether the directive passes through unchanged
func (d Directive) IsForwarded() bool {
	return d.Kind == Forwarded
}

// Render returns the directive in `key = "value"` form for boundary attribute blocks
func (d Directive) Render() string {
	if d.Kind == Forwarded || d.Form != FormNameValue {
		return d.Raw
	}
	return d.Key + " = " + d.Literal
}
