// Package expand routes annotated items to the declaration builder and
// rewrites source files with the expanded output.
package expand

import (
	"sort"

	"go.uber.org/zap"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/generator"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/signature"
	"github.com/toyz/wasmexport/internal/source"
	"github.com/toyz/wasmexport/internal/templates"
)

const (
	// VisibilityMessage is reported for a declaration that is not `pub`
	VisibilityMessage = "expected pub visibility"
	// OtherItemMessage is reported for items that are neither functions nor impl blocks
	OtherItemMessage = "unexpected input, wasm_export macro is only applicable to impl blocks or standalone functions"
	// TraitImplMessage is reported for trait impl blocks
	TraitImplMessage = "unexpected input, wasm_export macro is not applicable to trait impl blocks"
)

// Invocation is one use of the directive: the directive attributes written on
// an item and the item itself
type Invocation struct {
	Args []models.Attribute
	Item models.Item
}

// NewInvocation splits the directive attributes named directive off item
func NewInvocation(item models.Item, directive string) Invocation {
	inv := Invocation{Args: models.DirectiveAttributes(item.Attributes(), directive), Item: item}

	switch item.Kind {
	case models.ItemFunction:
		fn := item.Function.Clone()
		fn.Attrs = models.WithoutDirective(fn.Attrs, directive)
		inv.Item.Function = fn
	case models.ItemGroup:
		g := item.Group.Clone()
		g.Attrs = models.WithoutDirective(g.Attrs, directive)
		inv.Item.Group = g
	default:
		inv.Item.Attrs = models.WithoutDirective(item.Attrs, directive)
	}
	return inv
}

// Expander turns invocations into expansions
type Expander struct {
	naming   config.Naming
	registry directives.Registry
	parser   *directives.Parser
	analyzer *signature.Analyzer
	builder  generator.DeclarationBuilder
	renderer *templates.Renderer
	utils    *templates.TemplateUtils
	logger   *zap.Logger
}

// Option configures an Expander
type Option func(*Expander)

// WithLogger sets the logger used for routing decisions
func WithLogger(logger *zap.Logger) Option {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegistry sets the directive key registry
func WithRegistry(registry directives.Registry) Option {
	return func(e *Expander) {
		e.registry = registry
	}
}

// WithBuilder replaces the declaration builder
func WithBuilder(builder generator.DeclarationBuilder) Option {
	return func(e *Expander) {
		e.builder = builder
	}
}

// WithRenderer replaces the template renderer
func WithRenderer(renderer *templates.Renderer) Option {
	return func(e *Expander) {
		e.renderer = renderer
	}
}

// New creates an expander for the given naming
func New(naming config.Naming, opts ...Option) *Expander {
	e := &Expander{
		naming: naming,
		logger: zap.NewNop(),
		utils:  templates.NewTemplateUtils(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = directives.DefaultRegistry()
	}
	if e.renderer == nil {
		e.renderer = templates.NewRenderer(nil)
	}
	if e.builder == nil {
		e.builder = generator.NewBuilder(naming, e.renderer)
	}
	e.parser = directives.NewParser(e.registry, naming.Directive)
	e.analyzer = signature.NewAnalyzer(naming.Outcome, e.parser)
	return e
}

// Expand routes the invocation by item kind. Errors stop the expansion at
// the first offending declaration.
func (e *Expander) Expand(inv Invocation) (*models.Expansion, error) {
	switch inv.Item.Kind {
	case models.ItemFunction:
		return e.expandFunction(inv)
	case models.ItemGroup:
		return e.expandGroup(inv)
	default:
		e.logger.Debug("rejecting item", zap.String("kind", inv.Item.OtherKind))
		return nil, errors.NewRoutingError(inv.Item.OtherKind, OtherItemMessage, inv.Item.Span)
	}
}

func (e *Expander) expandFunction(inv Invocation) (*models.Expansion, error) {
	fn := inv.Item.Function

	set, err := e.parser.ParseAttributes(e.invocationAttrs(inv, fn.Attrs), directives.StandaloneContext)
	if err != nil {
		return nil, err
	}

	if !fn.Vis.IsPublic() {
		return nil, visibilityError(fn)
	}

	spec, err := e.analyzer.Resolve(fn, set)
	if err != nil {
		return nil, err
	}
	wrapper, err := e.builder.BuildWrapper(fn, spec, false)
	if err != nil {
		return nil, err
	}

	var stripped []source.Span
	for _, attr := range inv.Args {
		stripped = append(stripped, attr.Span)
	}
	original := e.stripFunction(fn, &stripped)

	e.logger.Debug("expanded standalone function",
		zap.String("function", fn.Name),
		zap.String("wrapper", wrapper.Name),
		zap.Bool("preserve_identity", spec.PreserveIdentity))

	return &models.Expansion{
		Original: withSpan(models.FunctionItem(original), inv.Item.Span),
		Export:   models.FunctionItem(wrapper),
		Stripped: sortSpans(stripped),
		Wrappers: []string{wrapper.Name},
	}, nil
}

func (e *Expander) expandGroup(inv Invocation) (*models.Expansion, error) {
	g := inv.Item.Group

	if g.IsTraitImpl() {
		e.logger.Debug("rejecting trait impl", zap.String("trait", g.Trait), zap.String("type", g.SelfType))
		return nil, errors.NewRoutingError(models.ItemGroup.String(), TraitImplMessage, g.ImplSpan)
	}

	groupSet, err := e.parser.ParseAttributes(e.invocationAttrs(inv, g.Attrs), directives.GroupContext)
	if err != nil {
		return nil, err
	}

	var wrappers []*models.Function
	for _, member := range g.Functions() {
		if !member.Vis.IsPublic() {
			e.logger.Debug("skipping non-public member", zap.String("type", g.SelfType), zap.String("member", member.Name))
			continue
		}

		set, err := e.parser.ParseAttributes(member.Attrs, directives.MemberContext)
		if err != nil {
			return nil, err
		}
		if set.ShouldSkip() {
			e.logger.Debug("skipping member", zap.String("type", g.SelfType), zap.String("member", member.Name))
			continue
		}

		spec, err := e.analyzer.Resolve(member, set)
		if err != nil {
			return nil, err
		}
		wrapper, err := e.builder.BuildWrapper(member, spec, true)
		if err != nil {
			return nil, err
		}
		wrappers = append(wrappers, wrapper)
	}

	export, err := e.builder.BuildGroup(g, groupSet.Forwarded(), wrappers)
	if err != nil {
		return nil, err
	}

	var stripped []source.Span
	for _, attr := range inv.Args {
		stripped = append(stripped, attr.Span)
	}
	original := g.Clone()
	original.Attrs = e.stripAttrs(original.Attrs, &stripped)
	for i := range original.Items {
		if original.Items[i].Function != nil {
			original.Items[i].Function = e.stripFunction(original.Items[i].Function, &stripped)
		}
	}

	names := make([]string, 0, len(wrappers))
	for _, w := range wrappers {
		names = append(names, w.Name)
	}
	e.logger.Debug("expanded impl block",
		zap.String("type", g.SelfType),
		zap.Strings("wrappers", names))

	return &models.Expansion{
		Original: withSpan(models.GroupItemOf(original), inv.Item.Span),
		Export:   models.GroupItemOf(export),
		Stripped: sortSpans(stripped),
		Wrappers: names,
	}, nil
}

// invocationAttrs returns the invocation's directive attributes followed by
// any directive attributes still written on the item
func (e *Expander) invocationAttrs(inv Invocation, itemAttrs []models.Attribute) []models.Attribute {
	attrs := append([]models.Attribute(nil), inv.Args...)
	return append(attrs, models.DirectiveAttributes(itemAttrs, e.naming.Directive)...)
}

// stripFunction removes directive attributes from fn and its parameters,
// recording the removed spans
func (e *Expander) stripFunction(fn *models.Function, spans *[]source.Span) *models.Function {
	out := fn.Clone()
	out.Attrs = e.stripAttrs(out.Attrs, spans)
	for i := range out.Params {
		out.Params[i].Attrs = e.stripAttrs(out.Params[i].Attrs, spans)
	}
	return out
}

func (e *Expander) stripAttrs(attrs []models.Attribute, spans *[]source.Span) []models.Attribute {
	for _, attr := range attrs {
		if attr.IsDirective(e.naming.Directive) {
			*spans = append(*spans, attr.Span)
		}
	}
	return models.WithoutDirective(attrs, e.naming.Directive)
}

// Render renders the original followed by the exported twin
func (e *Expander) Render(exp *models.Expansion) (string, error) {
	original, err := e.renderer.RenderItem(exp.Original)
	if err != nil {
		return "", err
	}
	export, err := e.renderer.RenderItem(exp.Export)
	if err != nil {
		return "", err
	}
	return original + "\n\n" + export, nil
}

func visibilityError(fn *models.Function) error {
	span := fn.Vis.Span
	if fn.Vis.Kind == models.VisibilityInherited {
		span = fn.FnSpan
	}
	err := errors.NewContractError(fn.Name, VisibilityMessage, span)
	err.WithSuggestion("declare the function `pub`")
	return err
}

func withSpan(item models.Item, span source.Span) models.Item {
	item.Span = span
	return item
}

func sortSpans(spans []source.Span) []source.Span {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Directive returns the name of the directive the expander reads
func (e *Expander) Directive() string {
	return e.naming.Directive
}
