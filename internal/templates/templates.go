package templates

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"github.com/toyz/wasmexport/internal/errors"
	"github.com/toyz/wasmexport/internal/models"
)

// MemberIndent is the indentation of members inside an impl block
const MemberIndent = "    "

// AttributeData is the input of the attribute template
type AttributeData struct {
	Path string
	Args []string
}

// ParamData is one rendered parameter
type ParamData struct {
	Attrs []string
	Text  string
}

// FunctionData is the input of the function template
type FunctionData struct {
	Indent    string
	Attrs     []string
	Head      string // visibility and qualifiers, each followed by a space
	Name      string
	Generics  string
	Params    []ParamData
	Multiline bool
	Output    string
	Where     string
	Body      string
}

// GroupData is the input of the group template
type GroupData struct {
	Attrs    []string
	Head     string
	Generics string
	Trait    string
	SelfType string
	Where    string
	Members  []string
}

// BodyData is the input of the body templates
type BodyData struct {
	Indent         string // indentation of the enclosing function
	Call           string // call expression, including `.await` when needed
	Dynamic        string // boundary dynamic value type, e.g. JsValue
	ErrorContainer string // boundary error type, e.g. WasmEncodedError
}

// Renderer executes registry templates. Parsed templates are cached.
type Renderer struct {
	registry *TemplateRegistry
	funcs    template.FuncMap

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewRenderer creates a renderer over registry
func NewRenderer(registry *TemplateRegistry) *Renderer {
	if registry == nil {
		registry = NewTemplateRegistry()
	}
	return &Renderer{
		registry: registry,
		funcs: template.FuncMap{
			"join": strings.Join,
		},
		parsed: make(map[string]*template.Template),
	}
}

// Execute renders the named template with data
func (r *Renderer) Execute(name string, data interface{}) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.parsed[name]; ok {
		return tmpl, nil
	}

	text, ok := r.registry.Get(name)
	if !ok {
		return nil, errors.Newf(errors.TemplateErrorCode, "template not found: %s", name)
	}
	tmpl, err := template.New(name).Funcs(r.funcs).Parse(text)
	if err != nil {
		return nil, errors.WrapTemplateError(name, "parse", err)
	}
	r.parsed[name] = tmpl
	return tmpl, nil
}

// RenderAttribute renders `#[path(args...)]`, or `#[path]` without args
func (r *Renderer) RenderAttribute(path string, args []string) (string, error) {
	return r.Execute("attribute", AttributeData{Path: path, Args: args})
}

// RenderBody renders a wrapper body
func (r *Renderer) RenderBody(preserveIdentity bool, data BodyData) (string, error) {
	if preserveIdentity {
		return r.Execute("preserve-identity-body", data)
	}
	return r.Execute("convert-body", data)
}

// RenderFunction renders fn at the given indentation. Attribute text is
// emitted as stored, with continuation lines of multi-line doc comments
// indented like the function.
func (r *Renderer) RenderFunction(fn *models.Function, indent string) (string, error) {
	data := FunctionData{
		Indent:   indent,
		Attrs:    attributeTexts(fn.Attrs, indent),
		Head:     functionHead(fn),
		Name:     fn.Name,
		Generics: fn.Generics,
		Output:   fn.Output,
		Where:    fn.Where,
		Body:     fn.Body,
	}
	if data.Body == "" {
		data.Body = ";"
		if data.Where == "" && data.Output == "" {
			data.Body = "{}"
		}
	}

	for _, p := range fn.Params {
		param := ParamData{Attrs: attributeTexts(p.Attrs, indent+MemberIndent), Text: p.Text()}
		if len(param.Attrs) > 0 {
			data.Multiline = true
		}
		data.Params = append(data.Params, param)
	}

	return r.Execute("function", data)
}

// RenderGroup renders an impl block with its members indented one level
func (r *Renderer) RenderGroup(group *models.Group) (string, error) {
	data := GroupData{
		Attrs:    attributeTexts(group.Attrs, ""),
		Generics: group.Generics,
		Trait:    group.Trait,
		SelfType: group.SelfType,
		Where:    group.Where,
	}
	if group.Unsafe {
		data.Head = "unsafe "
	}

	for _, item := range group.Items {
		if item.Function == nil {
			data.Members = append(data.Members, MemberIndent+strings.TrimSpace(item.Raw))
			continue
		}
		member, err := r.RenderFunction(item.Function, MemberIndent)
		if err != nil {
			return "", err
		}
		data.Members = append(data.Members, member)
	}

	return r.Execute("group", data)
}

// RenderItem renders a function or group item; other items are returned as written
func (r *Renderer) RenderItem(item models.Item) (string, error) {
	switch item.Kind {
	case models.ItemFunction:
		return r.RenderFunction(item.Function, "")
	case models.ItemGroup:
		return r.RenderGroup(item.Group)
	default:
		return item.Text, nil
	}
}

// attributeTexts returns the attribute texts. Non-empty continuation lines of
// doc comments are prefixed by indent.
func attributeTexts(attrs []models.Attribute, indent string) []string {
	out := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		text := attr.Text
		if attr.Doc && indent != "" && strings.Contains(text, "\n") {
			lines := strings.Split(text, "\n")
			for i := 1; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) != "" {
					lines[i] = indent + lines[i]
				}
			}
			text = strings.Join(lines, "\n")
		}
		out = append(out, text)
	}
	return out
}

func functionHead(fn *models.Function) string {
	var parts []string
	if fn.Vis.Text != "" {
		parts = append(parts, fn.Vis.Text)
	}
	if fn.Qualifiers != "" {
		parts = append(parts, fn.Qualifiers)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}
