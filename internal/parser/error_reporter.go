package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/source"
)

// MergeAttributesHint is suggested for a syntax error starting at an
// attribute. The grammar accepts one attribute per function parameter.
const MergeAttributesHint = "a function parameter takes a single attribute, merge the directive lists into one `#[...]`"

// SyntaxReporter turns tree-sitter error nodes into syntax diagnostics
type SyntaxReporter struct {
	content []byte
}

// NewSyntaxReporter creates a reporter for content
func NewSyntaxReporter(content []byte) *SyntaxReporter {
	return &SyntaxReporter{content: content}
}

// Report returns a diagnostic for the first error or missing node under root,
// or nil when the tree is clean
func (r *SyntaxReporter) Report(root *sitter.Node) error {
	node := firstError(root)
	if node == nil {
		return nil
	}

	span := spanOf(node)
	if node.IsMissing() {
		err := errors.NewSyntaxError(fmt.Sprintf("expected `%s`", node.Type()), span)
		err.WithSuggestion("the source must be valid Rust before it can be expanded")
		return err
	}

	snippet := r.snippet(span)
	if snippet == "" {
		return errors.NewSyntaxError("unexpected end of input", span)
	}
	err := errors.NewSyntaxError(fmt.Sprintf("unexpected `%s`", snippet), span).WithToken(snippet)
	if strings.HasPrefix(snippet, "#[") {
		err.WithSuggestion(MergeAttributesHint)
	}
	err.WithSuggestion("the source must be valid Rust before it can be expanded")
	return err
}

// snippet returns the first line of the text covered by span, shortened
func (r *SyntaxReporter) snippet(span source.Span) string {
	text := string(r.content[span.Start:span.End])
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxSnippet {
		text = string(runes[:maxSnippet]) + "..."
	}
	return text
}

// firstError finds the first error or missing node in source order
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsError() || child.IsMissing() || child.HasError() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}
