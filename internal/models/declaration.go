package models

import (
	"strings"

	"github.com/toyz/wasmexport/internal/source"
)

// Visibility is the visibility modifier of a declaration
type Visibility struct {
	Kind VisibilityKind
	Text string      // as written, empty when inherited
	Span source.Span // span of the modifier, zero when inherited
}

// IsPublic reports a bare `pub`
func (v Visibility) IsPublic() bool {
	return v.Kind == VisibilityPublic
}

// Param is one entry of a parameter list
type Param struct {
	Receiver bool        // self, &self, &mut self, mut self, self: T
	Pattern  string      // binding pattern, or the full receiver text
	Type     string      // declared type, empty for shorthand receivers
	Attrs    []Attribute // outer attributes written on the parameter
	Span     source.Span
}

// Text renders the parameter without its attributes
func (p Param) Text() string {
	if p.Receiver || p.Type == "" {
		return p.Pattern
	}
	return p.Pattern + ": " + p.Type
}

// Function is a standalone function or a member of a group
type Function struct {
	Attrs      []Attribute
	Vis        Visibility
	Qualifiers string      // qualifiers written before `fn`, e.g. "async", "const unsafe"
	Async      bool        // declared `async`
	FnSpan     source.Span // span of the `fn` keyword
	Name       string
	NameSpan   source.Span
	Generics   string      // generic parameter list including angle brackets
	Params     []Param
	Output     string      // return type without the arrow, empty for unit
	OutputSpan source.Span // span of the return type
	Where      string      // where clause, including the keyword
	Body       string      // block including braces
	SigSpan    source.Span // from the visibility (or qualifiers, or fn) to the end of the signature
	Span       source.Span // whole item including attributes
}

// HasReceiver reports whether the function takes self in any form
func (f *Function) HasReceiver() bool {
	for _, p := range f.Params {
		if p.Receiver {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the function
func (f *Function) Clone() *Function {
	if f == nil {
		return nil
	}
	out := *f
	out.Attrs = append([]Attribute(nil), f.Attrs...)
	out.Params = make([]Param, len(f.Params))
	for i, p := range f.Params {
		p.Attrs = append([]Attribute(nil), p.Attrs...)
		out.Params[i] = p
	}
	return &out
}

// GroupItem is one member of a group: either a function or an item kept as raw text
type GroupItem struct {
	Function *Function
	Raw      string // source text for non-function members
	Kind     string // node kind for non-function members, e.g. "const_item"
	Span     source.Span
}

// Group is an inherent or trait impl block
type Group struct {
	Attrs    []Attribute
	Unsafe   bool
	Generics string // generic parameter list after `impl`
	Trait    string // implemented trait, empty for inherent impls
	SelfType string
	Where    string
	Items    []GroupItem
	ImplSpan source.Span // span of the `impl` keyword
	Span     source.Span
}

// IsTraitImpl reports whether the group implements a trait
func (g *Group) IsTraitImpl() bool {
	return strings.TrimSpace(g.Trait) != ""
}

// Functions returns the function members in declaration order
func (g *Group) Functions() []*Function {
	var out []*Function
	for _, item := range g.Items {
		if item.Function != nil {
			out = append(out, item.Function)
		}
	}
	return out
}

// Clone returns a deep copy of the group
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.Attrs = append([]Attribute(nil), g.Attrs...)
	out.Items = make([]GroupItem, len(g.Items))
	for i, item := range g.Items {
		item.Function = item.Function.Clone()
		out.Items[i] = item
	}
	return &out
}

// Item is a top-level source item
type Item struct {
	Kind      ItemKind
	Function  *Function   // set when Kind is ItemFunction
	Group     *Group      // set when Kind is ItemGroup
	OtherKind string      // human name of any other item, e.g. "struct"
	Attrs     []Attribute // outer attributes of other items
	Span      source.Span
	Text      string // source text of the item
}

// Attributes returns the outer attributes of the item regardless of its kind
func (i Item) Attributes() []Attribute {
	switch i.Kind {
	case ItemFunction:
		return i.Function.Attrs
	case ItemGroup:
		return i.Group.Attrs
	default:
		return i.Attrs
	}
}

// Name returns a short label for logs and summaries
func (i Item) Name() string {
	switch i.Kind {
	case ItemFunction:
		return i.Function.Name
	case ItemGroup:
		return i.Group.SelfType
	default:
		return i.OtherKind
	}
}

// FunctionItem wraps f as a top-level item
func FunctionItem(f *Function) Item {
	return Item{Kind: ItemFunction, Function: f, Span: f.Span}
}

// GroupItemOf wraps g as a top-level item
func GroupItemOf(g *Group) Item {
	return Item{Kind: ItemGroup, Group: g, Span: g.Span}
}
