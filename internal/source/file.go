package source

import (
	"sort"
	"sync"
)

// Position is a 1-based line/column pair. Columns count bytes.
type Position struct {
	Line   int
	Column int
}

// File is a named source text with a lazily built line index
type File struct {
	Name    string
	Content []byte

	once       sync.Once
	lineStarts []int
}

// NewFile wraps content read from name
func NewFile(name string, content []byte) *File {
	return &File{Name: name, Content: content}
}

func (f *File) index() {
	f.once.Do(func() {
		f.lineStarts = []int{0}
		for i, b := range f.Content {
			if b == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	})
}

// Position converts a byte offset into a line/column pair
func (f *File) Position(offset int) Position {
	f.index()
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	return Position{Line: line + 1, Column: offset - f.lineStarts[line] + 1}
}

// LineCount returns the number of lines in the file
func (f *File) LineCount() int {
	f.index()
	return len(f.lineStarts)
}

// Line returns the text of the 1-based line n without its terminator
func (f *File) Line(n int) string {
	f.index()
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Content)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	if end > start && f.Content[end-1] == '\r' {
		end--
	}
	return string(f.Content[start:end])
}

// Slice returns the text covered by span, clamped to the file bounds
func (f *File) Slice(span Span) string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(f.Content) {
		end = len(f.Content)
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}
