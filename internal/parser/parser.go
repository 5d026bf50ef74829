// Package parser reads Rust source files into declaration models using the
// tree-sitter Rust grammar. Only what the expander needs is modelled: outer
// attributes and doc comments, functions, impl blocks and their members.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"go.uber.org/zap"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/source"
)

// File is a parsed Rust source file
type File struct {
	Source    *source.File
	Items     []models.Item // every item in source order, nested module items after their module
	Annotated []int         // indexes into Items of the items carrying the directive
}

// AnnotatedItems returns the items carrying the directive, in source order
func (f *File) AnnotatedItems() []models.Item {
	out := make([]models.Item, 0, len(f.Annotated))
	for _, idx := range f.Annotated {
		out = append(out, f.Items[idx])
	}
	return out
}

// Walk calls visit for every item, stopping at the first error
func (f *File) Walk(visit ItemVisitor) error {
	for i, item := range f.Items {
		if err := visit(i, item); err != nil {
			return err
		}
	}
	return nil
}

// Parser implements the SourceParser interface
type Parser struct {
	directive string
	logger    *zap.Logger
}

// NewParser creates a parser that marks items carrying the directive attribute
func NewParser(directive string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{directive: directive, logger: logger}
}

// Directive returns the name of the directive attribute the parser looks for
func (p *Parser) Directive() string {
	return p.directive
}

// ParseSource parses source code from a string
func (p *Parser) ParseSource(name, content string) (*File, error) {
	return p.ParseFile(name, []byte(content))
}

// ParseFile parses the content of the file called name
func (p *Parser) ParseFile(name string, content []byte) (*File, error) {
	return p.ParseFileContext(context.Background(), name, content)
}

// ParseFileContext parses the content of the file called name. A syntax error
// anywhere in the file fails the whole file.
func (p *Parser) ParseFileContext(ctx context.Context, name string, content []byte) (*File, error) {
	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(rust.GetLanguage())

	tree, err := ts.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, fmt.Sprintf("failed to parse %s", name), err)
	}
	defer tree.Close()

	file := &File{Source: source.NewFile(name, content)}
	root := tree.RootNode()
	if root.HasError() {
		if err := NewSyntaxReporter(content).Report(root); err != nil {
			return nil, errors.Locate(err, file.Source)
		}
	}

	w := &walker{content: content}
	w.collect(root, &file.Items)

	for i, item := range file.Items {
		if len(models.DirectiveAttributes(item.Attributes(), p.directive)) > 0 {
			file.Annotated = append(file.Annotated, i)
		}
	}

	p.logger.Debug("parsed source file",
		zap.String("file", name),
		zap.Int("items", len(file.Items)),
		zap.Int("annotated", len(file.Annotated)))

	return file, nil
}

// walker turns tree-sitter nodes into models
type walker struct {
	content []byte
}

func (w *walker) text(n *sitter.Node) string {
	return string(w.content[n.StartByte():n.EndByte()])
}

func spanOf(n *sitter.Node) source.Span {
	return source.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

// collect appends the items among the named children of node. Attributes
// and doc comments attach to the next item.
func (w *walker) collect(node *sitter.Node, items *[]models.Item) {
	var pending []models.Attribute

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case nodeAttributeItem:
			pending = append(pending, w.attribute(child))
		case nodeLineComment, nodeBlockComment:
			if attr, ok := w.docComment(child); ok {
				pending = append(pending, attr)
			}
		case nodeInnerAttribute:
			pending = nil
		default:
			*items = append(*items, w.item(child, pending))
			pending = nil

			if child.Type() == nodeModItem {
				if body := child.ChildByFieldName(fieldBody); body != nil {
					w.collect(body, items)
				}
			}
		}
	}
}

func (w *walker) item(node *sitter.Node, attrs []models.Attribute) models.Item {
	span := itemSpan(node, attrs)

	var item models.Item
	switch node.Type() {
	case nodeFunctionItem:
		item = models.FunctionItem(w.function(node, attrs))
	case nodeImplItem:
		item = models.GroupItemOf(w.group(node, attrs))
	default:
		item = models.Item{Kind: models.ItemOther, OtherKind: describe(node.Type()), Attrs: attrs}
	}

	item.Span = span
	item.Text = string(w.content[span.Start:span.End])
	return item
}

// describe turns a node type into a human name, e.g. "struct_item" -> "struct"
func describe(nodeType string) string {
	return strings.ReplaceAll(strings.TrimSuffix(nodeType, "_item"), "_", " ")
}

func itemSpan(node *sitter.Node, attrs []models.Attribute) source.Span {
	span := spanOf(node)
	if len(attrs) > 0 && attrs[0].Span.Start < span.Start {
		span.Start = attrs[0].Span.Start
	}
	return span
}

func (w *walker) function(node *sitter.Node, attrs []models.Attribute) *models.Function {
	fn := &models.Function{Attrs: attrs}
	sigStart := -1

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case nodeVisibility:
			fn.Vis = w.visibility(child)
		case nodeModifiers:
			fn.Qualifiers = strings.Join(strings.Fields(w.text(child)), " ")
			for _, q := range strings.Fields(fn.Qualifiers) {
				if q == "async" {
					fn.Async = true
				}
			}
		case "fn":
			fn.FnSpan = spanOf(child)
		case nodeWhereClause:
			fn.Where = w.text(child)
		default:
			continue
		}
		if sigStart < 0 {
			sigStart = int(child.StartByte())
		}
	}

	if name := node.ChildByFieldName(fieldName); name != nil {
		fn.Name = w.text(name)
		fn.NameSpan = spanOf(name)
	}
	if tp := node.ChildByFieldName(fieldTypeParameters); tp != nil {
		fn.Generics = w.text(tp)
	}

	sigEnd := fn.NameSpan.End
	if params := node.ChildByFieldName(fieldParameters); params != nil {
		fn.Params = w.params(params)
		sigEnd = int(params.EndByte())
	}
	if ret := node.ChildByFieldName(fieldReturnType); ret != nil {
		fn.Output = w.text(ret)
		fn.OutputSpan = spanOf(ret)
		sigEnd = fn.OutputSpan.End
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeWhereClause {
			sigEnd = int(child.EndByte())
		}
	}
	if body := node.ChildByFieldName(fieldBody); body != nil {
		fn.Body = w.text(body)
	}

	if sigStart < 0 {
		sigStart = int(node.StartByte())
	}
	fn.SigSpan = source.NewSpan(sigStart, sigEnd)
	fn.Span = itemSpan(node, attrs)
	return fn
}

func (w *walker) visibility(node *sitter.Node) models.Visibility {
	text := w.text(node)
	kind := models.VisibilityRestricted
	if text == "pub" {
		kind = models.VisibilityPublic
	}
	return models.Visibility{Kind: kind, Text: text, Span: spanOf(node)}
}

// params reads a parameter list. Attributes attach to the parameter after them.
func (w *walker) params(node *sitter.Node) []models.Param {
	var params []models.Param
	var pending []models.Attribute

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		var param models.Param
		switch child.Type() {
		case nodeAttributeItem:
			pending = append(pending, w.attribute(child))
			continue
		case nodeLineComment, nodeBlockComment:
			continue
		case nodeSelfParameter:
			param = models.Param{Receiver: true, Pattern: strings.Join(strings.Fields(w.text(child)), " ")}
		case nodeParameter:
			param = w.param(child)
		default:
			param = models.Param{Pattern: w.text(child)}
		}

		param.Attrs = pending
		param.Span = itemSpan(child, pending)
		params = append(params, param)
		pending = nil
	}

	return params
}

func (w *walker) param(node *sitter.Node) models.Param {
	pattern := node.ChildByFieldName(fieldPattern)
	typ := node.ChildByFieldName(fieldType)
	if pattern == nil || typ == nil {
		return models.Param{Pattern: w.text(node)}
	}

	// the pattern text starts at the parameter so that `mut` is kept
	patternText := strings.TrimSpace(string(w.content[node.StartByte():pattern.EndByte()]))
	if w.text(pattern) == "self" {
		return models.Param{Receiver: true, Pattern: w.text(node)}
	}
	return models.Param{Pattern: patternText, Type: w.text(typ)}
}

func (w *walker) group(node *sitter.Node, attrs []models.Attribute) *models.Group {
	g := &models.Group{Attrs: attrs}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "unsafe":
			g.Unsafe = true
		case "impl":
			g.ImplSpan = spanOf(child)
		case nodeWhereClause:
			g.Where = w.text(child)
		}
	}

	if tp := node.ChildByFieldName(fieldTypeParameters); tp != nil {
		g.Generics = w.text(tp)
	}
	if trait := node.ChildByFieldName(fieldTrait); trait != nil {
		g.Trait = w.text(trait)
	}
	if typ := node.ChildByFieldName(fieldType); typ != nil {
		g.SelfType = w.text(typ)
	}
	if body := node.ChildByFieldName(fieldBody); body != nil {
		g.Items = w.members(body)
	}

	g.Span = itemSpan(node, attrs)
	return g
}

func (w *walker) members(node *sitter.Node) []models.GroupItem {
	var members []models.GroupItem
	var pending []models.Attribute

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case nodeAttributeItem:
			pending = append(pending, w.attribute(child))
			continue
		case nodeLineComment, nodeBlockComment:
			if attr, ok := w.docComment(child); ok {
				pending = append(pending, attr)
			}
			continue
		}

		span := itemSpan(child, pending)
		member := models.GroupItem{Span: span}
		if child.Type() == nodeFunctionItem {
			member.Function = w.function(child, pending)
		} else {
			member.Kind = child.Type()
			member.Raw = string(w.content[span.Start:span.End])
		}
		members = append(members, member)
		pending = nil
	}

	return members
}

// attribute reads an `#[...]` attribute item
func (w *walker) attribute(node *sitter.Node) models.Attribute {
	attr := models.Attribute{Text: w.text(node), Span: spanOf(node)}

	var inner *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeAttribute {
			inner = child
			break
		}
	}
	if inner == nil {
		return attr
	}

	args := inner.ChildByFieldName(fieldArguments)
	value := inner.ChildByFieldName(fieldValue)

	pathEnd := inner.EndByte()
	switch {
	case args != nil:
		pathEnd = args.StartByte()
	case value != nil:
		for i := 0; i < int(inner.ChildCount()); i++ {
			if child := inner.Child(i); child.Type() == "=" {
				pathEnd = child.StartByte()
				break
			}
		}
	}
	attr.Path = strings.Join(strings.Fields(string(w.content[inner.StartByte():pathEnd])), "")

	switch {
	case args != nil:
		start, end := int(args.StartByte())+1, int(args.EndByte())-1
		if end < start {
			end = start
		}
		attr.Delimited = true
		attr.Args = string(w.content[start:end])
		attr.ArgsSpan = source.Span{Start: start, End: end}
	case value != nil:
		attr.Args = w.text(value)
		attr.ArgsSpan = spanOf(value)
		attr.Doc = attr.Path == DocPath
	}

	return attr
}

// docComment reads an outer doc comment, `/// ...` or `/** ... */`
func (w *walker) docComment(node *sitter.Node) (models.Attribute, bool) {
	text := strings.TrimRight(w.text(node), "\r\n")

	line := strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////")
	block := strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/"
	if !line && !block {
		return models.Attribute{}, false
	}

	start := int(node.StartByte())
	span := source.Span{Start: start, End: start + len(text)}
	if block {
		text = w.dedentContinuation(text, start)
	}
	return models.Attribute{Path: DocPath, Text: text, Span: span, Doc: true}, true
}

// dedentContinuation removes the indentation of the line holding offset from
// the continuation lines of a multi-line comment
func (w *walker) dedentContinuation(text string, offset int) string {
	lineStart := offset
	for lineStart > 0 && (w.content[lineStart-1] == ' ' || w.content[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && w.content[lineStart-1] != '\n' {
		return text
	}
	indent := string(w.content[lineStart:offset])
	if indent == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], indent)
	}
	return strings.Join(lines, "\n")
}
