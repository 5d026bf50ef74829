package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/wasmexport/internal/config"
	"github.com/toyz/wasmexport/internal/directives"
	"github.com/toyz/wasmexport/internal/models"
	"github.com/toyz/wasmexport/internal/signature"
	"github.com/toyz/wasmexport/internal/templates"
)

// Builder implements the DeclarationBuilder interface
type Builder struct {
	naming   config.Naming
	renderer *templates.Renderer
	utils    *templates.TemplateUtils
}

// NewBuilder creates a new declaration builder for the given naming
func NewBuilder(naming config.Naming, renderer *templates.Renderer) *Builder {
	if renderer == nil {
		renderer = templates.NewRenderer(nil)
	}
	return &Builder{
		naming:   naming,
		renderer: renderer,
		utils:    templates.NewTemplateUtils(),
	}
}

// WrapperName returns the name of the exported twin of name
func (b *Builder) WrapperName(name string) string {
	return name + b.naming.Suffix
}

// BuildWrapper builds the exported twin of fn. The twin keeps the signature
// of fn apart from its name, attributes, parameter directives and return type,
// and its body calls fn.
func (b *Builder) BuildWrapper(fn *models.Function, spec *signature.ExportSpec, inGroup bool) (*models.Function, error) {
	if fn == nil || spec == nil {
		return nil, fmt.Errorf("cannot build a wrapper without a declaration and its export spec")
	}
	if spec.ShouldSkip {
		return nil, fmt.Errorf("declaration %s is marked skip", fn.Name)
	}

	wrapper := fn.Clone()
	wrapper.Name = b.WrapperName(fn.Name)

	attrs, err := b.wrapperAttributes(fn, spec)
	if err != nil {
		return nil, err
	}
	wrapper.Attrs = attrs

	params, args := b.wrapperParams(spec.Params)
	wrapper.Params = params

	if spec.PreserveIdentity {
		wrapper.Output = b.naming.DynamicValue
	} else {
		wrapper.Output = b.utils.ContainerType(b.naming.Container, spec.ReturnType)
	}

	indent := ""
	if inGroup {
		indent = templates.MemberIndent
	}
	call := b.utils.BuildCall(b.utils.CallTarget(inGroup, fn.HasReceiver()), fn.Name, args, fn.Async)
	body, err := b.renderer.RenderBody(spec.PreserveIdentity, templates.BodyData{
		Indent:         indent,
		Call:           call,
		Dynamic:        b.naming.DynamicValue,
		ErrorContainer: b.naming.ErrorContainer,
	})
	if err != nil {
		return nil, err
	}
	wrapper.Body = body

	return wrapper, nil
}

// wrapperAttributes returns the doc comments of fn followed by the lint
// allowance and the boundary attribute
func (b *Builder) wrapperAttributes(fn *models.Function, spec *signature.ExportSpec) ([]models.Attribute, error) {
	attrs := models.DocAttributes(fn.Attrs)
	attrs = append(attrs, models.NewAttribute("allow", b.naming.Lint))

	args := make([]string, 0, len(spec.Forwarded)+2)
	for _, d := range spec.Forwarded {
		args = append(args, d.Render())
	}
	label := b.utils.ContainerType(b.naming.Container, spec.Label)
	args = append(args, directives.UncheckedReturnType.String()+" = "+directives.Quote(label))
	if spec.ReturnDescription != nil {
		args = append(args, spec.ReturnDescription.Render())
	}

	boundary, err := b.renderer.RenderAttribute(b.naming.Boundary, args)
	if err != nil {
		return nil, err
	}
	attr := models.NewAttribute(b.naming.Boundary, strings.Join(args, ", "))
	attr.Text = boundary
	return append(attrs, attr), nil
}

// wrapperParams rewrites parameter directives into boundary attributes and
// collects the call arguments. Receivers are copied as written.
func (b *Builder) wrapperParams(specs []signature.ParamSpec) ([]models.Param, []string) {
	params := make([]models.Param, 0, len(specs))
	var args []string

	for _, ps := range specs {
		p := ps.Param
		p.Attrs = models.WithoutDirective(p.Attrs, b.naming.Directive)

		if p.Receiver {
			params = append(params, p)
			continue
		}

		if ps.Directives.Len() > 0 {
			rendered := make([]string, 0, ps.Directives.Len())
			for _, d := range ps.Directives.All() {
				rendered = append(rendered, d.Render())
			}
			p.Attrs = append(p.Attrs, models.NewAttribute(b.naming.Boundary, strings.Join(rendered, ", ")))
		}

		params = append(params, p)
		args = append(args, b.utils.ArgumentText(p.Pattern))
	}

	return params, args
}

// BuildGroup builds the exported impl block holding wrappers. Group-level
// forwarded directives go on the block's boundary attribute.
func (b *Builder) BuildGroup(original *models.Group, forwarded []directives.Directive, wrappers []*models.Function) (*models.Group, error) {
	if original == nil {
		return nil, fmt.Errorf("cannot build an exported impl block without the original")
	}

	group := original.Clone()

	args := make([]string, 0, len(forwarded))
	for _, d := range forwarded {
		args = append(args, d.Render())
	}
	text, err := b.renderer.RenderAttribute(b.naming.Boundary, args)
	if err != nil {
		return nil, err
	}
	attr := models.NewAttribute(b.naming.Boundary, strings.Join(args, ", "))
	attr.Text = text
	group.Attrs = []models.Attribute{attr}

	group.Items = make([]models.GroupItem, 0, len(wrappers))
	for _, w := range wrappers {
		group.Items = append(group.Items, models.GroupItem{Function: w})
	}

	return group, nil
}
