package expand

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/parser"
	"github.com/toyz/wasmexport/internal/source"
)

// FileResult is the outcome of expanding one source file
type FileResult struct {
	Name       string
	Output     string              // rewritten source text
	Expansions []*models.Expansion // one per annotated item, in source order
}

// Wrappers returns the number of generated wrappers
func (r *FileResult) Wrappers() int {
	n := 0
	for _, exp := range r.Expansions {
		n += len(exp.Wrappers)
	}
	return n
}

// Changed reports whether the file contained annotated items
func (r *FileResult) Changed() bool {
	return len(r.Expansions) > 0
}

// edit replaces span with text
type edit struct {
	span source.Span
	text string
}

// ExpandFile expands every annotated item of file. Each annotated item keeps
// its source text minus the directive attributes and is followed by its
// exported twin; everything else is copied unchanged. A directive written
// inside an item that does not carry the directive itself is a placement
// error. The first failing item fails the file.
func (e *Expander) ExpandFile(file *parser.File) (*FileResult, error) {
	content := file.Source.Content
	result := &FileResult{Name: file.Source.Name}

	annotated := make(map[int]bool, len(file.Annotated))
	for _, idx := range file.Annotated {
		annotated[idx] = true
	}

	var edits []edit
	err := file.Walk(func(index int, item models.Item) error {
		if !annotated[index] {
			return errors.Locate(e.strayDirective(item), file.Source)
		}

		exp, err := e.Expand(NewInvocation(item, e.naming.Directive))
		if err != nil {
			return errors.Locate(err, file.Source)
		}

		twin, err := e.renderer.RenderItem(exp.Export)
		if err != nil {
			return err
		}

		for _, span := range stripSpans(content, exp.Stripped) {
			edits = append(edits, edit{span: span})
		}
		indent := lineIndent(content, item.Span.Start)
		edits = append(edits, edit{
			span: source.Span{Start: item.Span.End, End: item.Span.End},
			text: "\n\n" + e.utils.IndentLines(twin, indent),
		})

		result.Expansions = append(result.Expansions, exp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Output = apply(content, edits)

	e.logger.Debug("expanded file",
		zap.String("file", result.Name),
		zap.Int("items", len(result.Expansions)),
		zap.Int("wrappers", result.Wrappers()))

	return result, nil
}

// strayDirective reports the first directive attribute written on a member or
// parameter of an item that does not carry the directive itself
func (e *Expander) strayDirective(item models.Item) error {
	name := e.naming.Directive

	switch item.Kind {
	case models.ItemFunction:
		return strayParamDirective(item.Function, name, "function")
	case models.ItemGroup:
		for _, fn := range item.Group.Functions() {
			if attrs := models.DirectiveAttributes(fn.Attrs, name); len(attrs) > 0 {
				return errors.NewPlacementError(name,
					fmt.Sprintf("`%s` on a method requires `#[%s]` on its impl block", name, name),
					attrs[0].Span)
			}
			if err := strayParamDirective(fn, name, "impl block"); err != nil {
				return err
			}
		}
	}
	return nil
}

func strayParamDirective(fn *models.Function, name, owner string) error {
	for _, p := range fn.Params {
		if attrs := models.DirectiveAttributes(p.Attrs, name); len(attrs) > 0 {
			return errors.NewPlacementError(name,
				fmt.Sprintf("`%s` on a parameter requires `#[%s]` on its %s", name, name, owner),
				attrs[0].Span)
		}
	}
	return nil
}

// stripSpans widens the spans of removed attributes with wholeLine. An
// attribute following a removed one on the same line goes with it, so a line
// holding only removed attributes disappears entirely.
func stripSpans(content []byte, spans []source.Span) []source.Span {
	out := make([]source.Span, 0, len(spans))
	for _, span := range spans {
		widened := wholeLine(content, span)
		if n := len(out); n > 0 && out[n-1].End == widened.Start && startsLine(content, out[n-1].Start) {
			out[n-1] = wholeLine(content, source.Span{Start: out[n-1].Start, End: span.End})
			continue
		}
		out = append(out, widened)
	}
	return out
}

// startsLine reports whether only blanks precede offset on its line
func startsLine(content []byte, offset int) bool {
	for offset > 0 && isBlank(content[offset-1]) {
		offset--
	}
	return offset == 0 || content[offset-1] == '\n'
}

// wholeLine widens the span of a removed attribute over the blanks after it,
// and over its whole line when nothing else is written on that line
func wholeLine(content []byte, span source.Span) source.Span {
	start, end := span.Start, span.End
	for end < len(content) && isBlank(content[end]) {
		end++
	}

	lineStart := start
	for lineStart > 0 && isBlank(content[lineStart-1]) {
		lineStart--
	}
	if lineStart > 0 && content[lineStart-1] != '\n' {
		return source.Span{Start: start, End: end}
	}

	switch {
	case end == len(content):
		return source.Span{Start: lineStart, End: end}
	case content[end] == '\r' && end+1 < len(content) && content[end+1] == '\n':
		return source.Span{Start: lineStart, End: end + 2}
	case content[end] == '\n':
		return source.Span{Start: lineStart, End: end + 1}
	default:
		return source.Span{Start: start, End: end}
	}
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

// lineIndent returns the blanks before offset on its line, or nothing when
// other text precedes offset on that line
func lineIndent(content []byte, offset int) string {
	start := offset
	for start > 0 && isBlank(content[start-1]) {
		start--
	}
	if start > 0 && content[start-1] != '\n' {
		return ""
	}
	return string(content[start:offset])
}

// apply performs edits in offset order. An edit overlapping an earlier one is dropped.
func apply(content []byte, edits []edit) string {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].span.Start < edits[j].span.Start })

	var b strings.Builder
	b.Grow(len(content))

	cursor := 0
	for _, ed := range edits {
		if ed.span.Start < cursor {
			continue
		}
		b.Write(content[cursor:ed.span.Start])
		b.WriteString(ed.text)
		cursor = ed.span.End
	}
	b.Write(content[cursor:])
	return b.String()
}
