package source

import "fmt"

// Span is a half-open byte range [Start, End) into a single source text.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span, swapping the bounds if they are reversed
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// IsZero reports whether the span carries no location at all
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Cover returns the smallest span containing both s and other.
// A zero span is treated as absent.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Shift moves the span by delta bytes
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// Contains reports whether other lies fully inside s
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
