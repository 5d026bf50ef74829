package directives

// Set holds the directives written at one attachment point, in source order
type Set struct {
	Context    Context
	directives []Directive
	byKind     map[Kind]int
}

// NewSet creates an empty set for ctx
func NewSet(ctx Context) *Set {
	return &Set{Context: ctx, byKind: make(map[Kind]int)}
}

// add appends d. Recognized kinds may occur once; the caller reports duplicates.
func (s *Set) add(d Directive) bool {
	if d.Kind != Forwarded {
		if _, exists := s.byKind[d.Kind]; exists {
			return false
		}
		s.byKind[d.Kind] = len(s.directives)
	}
	s.directives = append(s.directives, d)
	return true
}

// Get returns the directive of the given kind
func (s *Set) Get(kind Kind) (Directive, bool) {
	if s == nil {
		return Directive{}, false
	}
	idx, ok := s.byKind[kind]
	if !ok {
		return Directive{}, false
	}
	return s.directives[idx], true
}

// Has reports whether a directive of the given kind is present
func (s *Set) Has(kind Kind) bool {
	_, ok := s.Get(kind)
	return ok
}

// All returns every directive in source order
func (s *Set) All() []Directive {
	if s == nil {
		return nil
	}
	return append([]Directive(nil), s.directives...)
}

// Forwarded returns the pass-through directives in source order
func (s *Set) Forwarded() []Directive {
	if s == nil {
		return nil
	}
	var out []Directive
	for _, d := range s.directives {
		if d.Kind == Forwarded {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of directives
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.directives)
}

// IsEmpty reports whether the set holds no directives
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// ShouldSkip reports a `skip` directive
func (s *Set) ShouldSkip() bool {
	return s.Has(Skip)
}

// PreserveIdentity reports a `preserve_js_class` directive
func (s *Set) PreserveIdentity() bool {
	return s.Has(PreserveJSClass)
}

// ReturnTypeOverride returns the `unchecked_return_type` value
func (s *Set) ReturnTypeOverride() (string, bool) {
	d, ok := s.Get(UncheckedReturnType)
	return d.Value, ok
}

// ReturnDescription returns the `return_description` directive
func (s *Set) ReturnDescription() (Directive, bool) {
	return s.Get(ReturnDescription)
}

// Merge appends the directives of other, failing on the first recognized kind
// already present in s. The failing directive is returned so the caller can
// anchor a diagnostic to it.
func (s *Set) Merge(other *Set) (Directive, bool) {
	for _, d := range other.All() {
		if !s.add(d) {
			return d, false
		}
	}
	return Directive{}, true
}
