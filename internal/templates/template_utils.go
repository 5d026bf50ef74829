package templates

import (
	"strings"
)

// TemplateUtils provides common utilities for wrapper generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// ArgumentText converts a parameter pattern into the expression that forwards
// it. A leading `mut` binding mode is not valid in expression position.
func (tu *TemplateUtils) ArgumentText(pattern string) string {
	arg := strings.TrimSpace(pattern)
	if rest, ok := strings.CutPrefix(arg, "mut "); ok {
		return strings.TrimSpace(rest)
	}
	return arg
}

// CallTarget returns the prefix that reaches the original declaration:
// `self.` for methods, `Self::` for associated functions inside an impl block
// and nothing for standalone functions.
func (tu *TemplateUtils) CallTarget(inGroup, hasReceiver bool) string {
	switch {
	case hasReceiver:
		return "self."
	case inGroup:
		return "Self::"
	default:
		return ""
	}
}

// BuildCall builds the call expression of a wrapper body
func (tu *TemplateUtils) BuildCall(target, name string, args []string, async bool) string {
	call := target + name + "(" + strings.Join(args, ", ") + ")"
	if async {
		call += ".await"
	}
	return call
}

// ContainerType wraps label in the boundary outcome container, e.g. WasmEncodedResult<T>
func (tu *TemplateUtils) ContainerType(container, label string) string {
	return container + "<" + label + ">"
}

// IndentLines prefixes every non-empty line of text with indent
func (tu *TemplateUtils) IndentLines(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
