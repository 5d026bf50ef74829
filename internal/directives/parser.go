package directives

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/source"
)

// Parser reads directive argument lists into Sets
type Parser struct {
	registry Registry
	name     string
}

// NewParser creates a parser for the directive attribute called name
func NewParser(registry Registry, name string) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{registry: registry, name: name}
}

// Name returns the directive attribute name the parser reads
func (p *Parser) Name() string {
	return p.name
}

// Parse reads one argument list written at ctx. argsSpan locates args in the
// source text so that diagnostics point at the offending tokens.
func (p *Parser) Parse(args string, argsSpan source.Span, ctx Context) (*Set, error) {
	set := NewSet(ctx)
	if err := p.parseInto(set, args, argsSpan); err != nil {
		return nil, err
	}
	if err := p.checkPlacement(set); err != nil {
		return nil, err
	}
	return set, nil
}

// ParseAttributes parses every directive attribute among attrs on its own and
// merges them into one Set. Duplicate detection spans all of them; other
// attributes are ignored.
func (p *Parser) ParseAttributes(attrs []models.Attribute, ctx Context) (*Set, error) {
	set := NewSet(ctx)
	for _, attr := range attrs {
		if !attr.IsDirective(p.name) {
			continue
		}
		if ctx == ReceiverContext && strings.TrimSpace(attr.Args) == "" {
			return nil, errors.NewPlacementError(p.name, receiverMessage(p.name), attr.Span)
		}

		own := NewSet(ctx)
		if err := p.parseInto(own, attr.Args, attr.ArgsSpan); err != nil {
			return nil, err
		}
		if d, ok := set.Merge(own); !ok {
			return nil, errors.NewDuplicateError(d.Key, d.Span)
		}
	}
	if err := p.checkPlacement(set); err != nil {
		return nil, err
	}
	return set, nil
}

func receiverMessage(key string) string {
	return fmt.Sprintf("unexpected `%s` attribute, it is not valid on a self receiver", key)
}

func (p *Parser) parseInto(set *Set, args string, argsSpan source.Span) error {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	list, err := metaGrammar.ParseString("", args)
	if err != nil {
		return p.syntaxError(err, args, argsSpan)
	}

	for i, e := range list.Entries {
		if i > 0 && !list.Entries[i-1].Comma {
			offset := argsSpan.Start + e.Meta.Pos.Offset
			tok := e.Meta.Path.String()
			return errors.NewSyntaxError(p.delimiterMessage("expected `,`"),
				source.NewSpan(offset, offset+len(tok))).WithToken(tok)
		}
		d, err := p.convert(e.Meta, args, argsSpan, set.Context)
		if err != nil {
			return err
		}
		if !set.add(d) {
			return errors.NewDuplicateError(d.Key, d.Span)
		}
	}
	return nil
}

// convert turns one meta into a directive, checking its shape against the registry
func (p *Parser) convert(m *meta, args string, argsSpan source.Span, ctx Context) (Directive, error) {
	key := m.Path.String()
	start := m.Pos.Offset
	end := trimmedEnd(args, start, m.EndPos.Offset)

	d := Directive{
		Kind: Forwarded,
		Key:  key,
		Form: FormPath,
		Raw:  args[start:end],
		Span: source.NewSpan(argsSpan.Start+start, argsSpan.Start+end),
	}

	switch {
	case m.Value != nil:
		d.Form = FormNameValue
		vStart := m.Value.Pos.Offset
		vEnd := trimmedEnd(args, vStart, m.Value.EndPos.Offset)
		d.Literal = args[vStart:vEnd]
		d.ValueSpan = source.NewSpan(argsSpan.Start+vStart, argsSpan.Start+vEnd)
	case m.List != nil:
		d.Form = FormList
		if !m.List.balanced() {
			return d, errors.NewSyntaxError(p.delimiterMessage("mismatched closing delimiter"), d.Span)
		}
	}

	if ctx == ReceiverContext {
		return d, errors.NewPlacementError(key, receiverMessage(key), d.Span)
	}

	spec, ok := p.registry.Lookup(key)
	if !ok || (spec.ForwardElsewhere && !spec.AllowedIn(ctx)) {
		return d, nil
	}
	d.Kind = spec.Kind

	switch spec.Shape {
	case ShapeBare:
		if d.Form != FormPath {
			tail := source.NewSpan(argsSpan.Start+m.Path.EndPos.Offset, d.Span.End)
			return d, errors.NewShapeError(key,
				fmt.Sprintf("unexpected token in attribute, `%s` attribute does not take any extra tokens or arguments", key),
				tail)
		}
	case ShapeString:
		if d.Form != FormNameValue {
			return d, errors.NewShapeError(key,
				fmt.Sprintf("expected a value for this attribute: `%s = ...` and it must be a string literal", key),
				d.Span)
		}
		lit, ok := m.Value.literal()
		if !ok || !isStringLiteral(lit) {
			return d, errors.NewShapeError(key, "expected string literal", d.ValueSpan)
		}
		value, ok := Unquote(lit)
		if !ok {
			return d, errors.NewShapeError(key, "expected string literal", d.ValueSpan)
		}
		d.Value = value
	}
	return d, nil
}

// checkPlacement rejects recognized keys outside their contexts, in registry order
func (p *Parser) checkPlacement(set *Set) error {
	for _, spec := range p.registry.Specs() {
		d, ok := set.Get(spec.Kind)
		if !ok || spec.AllowedIn(set.Context) {
			continue
		}
		return errors.NewPlacementError(spec.Key, spec.MisplacedMessage(), d.Span)
	}
	return nil
}

func (p *Parser) delimiterMessage(prefix string) string {
	return fmt.Sprintf("%s as %s attributes must be delimited by comma", prefix, p.name)
}

func (p *Parser) syntaxError(err error, args string, argsSpan source.Span) error {
	var unexpected *participle.UnexpectedTokenError
	if stderrors.As(err, &unexpected) {
		tok := unexpected.Unexpected
		offset := argsSpan.Start + tok.Pos.Offset
		if tok.EOF() {
			return errors.NewSyntaxError(p.delimiterMessage("unexpected end of input, expected an expression"),
				source.NewSpan(argsSpan.Start+len(strings.TrimRight(args, " \t\r\n")), argsSpan.End))
		}
		return errors.NewSyntaxError(p.delimiterMessage("expected `,`"),
			source.NewSpan(offset, offset+len(tok.Value))).WithToken(tok.Value)
	}

	var perr participle.Error
	if stderrors.As(err, &perr) {
		offset := argsSpan.Start + perr.Position().Offset
		return errors.NewSyntaxError(p.delimiterMessage(perr.Message()), source.NewSpan(offset, offset+1))
	}
	return errors.NewSyntaxError(p.delimiterMessage(err.Error()), argsSpan)
}

// trimmedEnd returns end moved back over trailing whitespace and comments
// that participle attributes to the preceding node
func trimmedEnd(args string, start, end int) int {
	if end > len(args) || end < start {
		end = len(args)
	}
	return start + len(strings.TrimRight(args[start:end], " \t\r\n"))
}
