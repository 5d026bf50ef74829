package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerDeclarationTemplates()
	registry.registerBodyTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// registerDeclarationTemplates registers function, impl block and attribute templates
func (tr *TemplateRegistry) registerDeclarationTemplates() {
	tr.templates["attribute"] = `#[{{.Path}}{{if .Args}}({{join .Args ", "}}){{end}}]`

	// Parameters go on one line unless one of them carries attributes
	tr.templates["function"] = `{{range .Attrs}}{{$.Indent}}{{.}}
{{end}}{{.Indent}}{{.Head}}fn {{.Name}}{{.Generics}}(
{{- if .Multiline}}
{{range .Params}}{{range .Attrs}}{{$.Indent}}    {{.}}
{{end}}{{$.Indent}}    {{.Text}},
{{end}}{{.Indent}}
{{- else}}{{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Text}}{{end}}{{end -}}
){{if .Output}} -> {{.Output}}{{end}}{{if .Where}} {{.Where}}{{end}} {{.Body}}`

	tr.templates["group"] = `{{range .Attrs}}{{.}}
{{end}}{{.Head}}impl{{.Generics}} {{if .Trait}}{{.Trait}} for {{end}}{{.SelfType}}{{if .Where}} {{.Where}}{{end}} {
{{- range $i, $m := .Members}}
{{if $i}}
{{end}}{{$m}}{{end}}
}`
}

// registerBodyTemplates registers the wrapper body templates
func (tr *TemplateRegistry) registerBodyTemplates() {
	tr.templates["convert-body"] = `{
{{.Indent}}    {{.Call}}.into()
{{.Indent}}}`

	tr.templates["preserve-identity-body"] = `{
{{.Indent}}    use js_sys::{Reflect, Object};
{{.Indent}}    let obj = Object::new();
{{.Indent}}    let result = {{.Call}};
{{.Indent}}    match result {
{{.Indent}}        Ok(value) => {
{{.Indent}}            Reflect::set(&obj, &{{.Dynamic}}::from_str("value"), &value.into()).unwrap();
{{.Indent}}            Reflect::set(&obj, &{{.Dynamic}}::from_str("error"), &{{.Dynamic}}::UNDEFINED).unwrap();
{{.Indent}}        }
{{.Indent}}        Err(error) => {
{{.Indent}}            let wasm_error: {{.ErrorContainer}} = error.into();
{{.Indent}}            Reflect::set(&obj, &{{.Dynamic}}::from_str("value"), &{{.Dynamic}}::UNDEFINED).unwrap();
{{.Indent}}            Reflect::set(&obj, &{{.Dynamic}}::from_str("error"), &wasm_error.into()).unwrap();
{{.Indent}}        }
{{.Indent}}    };
{{.Indent}}    obj.into()
{{.Indent}}}`
}
