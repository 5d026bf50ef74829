package models

// ItemKind classifies a top-level source item handed to the expander
type ItemKind int

const (
	ItemOther ItemKind = iota
	ItemFunction
	ItemGroup
)

// String returns the string representation of the item kind
func (k ItemKind) String() string {
	switch k {
	case ItemFunction:
		return "function"
	case ItemGroup:
		return "impl"
	default:
		return "other"
	}
}

// VisibilityKind describes how a declaration is exposed
type VisibilityKind int

const (
	// VisibilityInherited means no visibility modifier was written
	VisibilityInherited VisibilityKind = iota
	// VisibilityPublic is a bare `pub`
	VisibilityPublic
	// VisibilityRestricted is `pub(crate)`, `pub(super)`, `pub(in path)` and similar
	VisibilityRestricted
)

// String returns the string representation of the visibility kind
func (k VisibilityKind) String() string {
	switch k {
	case VisibilityPublic:
		return "public"
	case VisibilityRestricted:
		return "restricted"
	default:
		return "inherited"
	}
}
