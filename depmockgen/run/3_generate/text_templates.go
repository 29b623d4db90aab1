package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds all parsed text templates for code generation.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl        *template.Template
	contractTmpl      *template.Template
	doubleTmpl        *template.Template
	registrationsTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		headerTmpl:        template.Must(template.New("header").Parse(headerTemplate)),
		contractTmpl:      template.Must(template.New("contract").Parse(contractTemplate)),
		doubleTmpl:        template.Must(template.New("double").Parse(doubleTemplate)),
		registrationsTmpl: template.Must(template.New("registrations").Parse(registrationsTemplate)),
	}
}

// WriteContract writes the contract interface of a struct dependency.
func (r *TemplateRegistry) WriteContract(buf *bytes.Buffer, data any) {
	err := r.contractTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute contract template: %v", err))
	}
}

// WriteDouble writes a double type and its forwarding methods.
func (r *TemplateRegistry) WriteDouble(buf *bytes.Buffer, data any) {
	err := r.doubleTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute double template: %v", err))
	}
}

// WriteHeader writes the generated-code marker, package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	err := r.headerTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute header template: %v", err))
	}
}

// WriteRegistrations writes the init function registering hosts and dependencies.
func (r *TemplateRegistry) WriteRegistrations(buf *bytes.Buffer, data any) {
	err := r.registrationsTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute registrations template: %v", err))
	}
}

// unexported constants.
const (
	contractTemplate = `
// {{.Contract}} is the method set of {{.Type}} its dependents use.
type {{.Contract}} interface {
{{- range .Methods}}
	{{.Name}}{{.Signature}}
{{- end}}
}
`
	doubleTemplate = `
// {{.Double}} forwards every call to its mock.
type {{.Double}} struct {
	mock *depmock.Mock
}
{{range .Methods}}
func (d *{{$.Double}}) {{.Name}}{{.Signature}} {
{{- if .Dispatch}}
	return d.mock.Call({{.Forward}})
{{- else if .Results}}
	values := d.mock.Invoke({{.Call}})

	{{.Return}}
{{- else}}
	d.mock.Invoke({{.Call}})
{{- end}}
}
{{end}}`
	headerTemplate = `// Code generated by depmockgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.Name}} "{{.Path}}"
{{- end}}
)
`
	registrationsTemplate = `
//nolint:gochecknoinits // registrations must be in place before tests run
func init() {
{{- range .Interfaces}}
{{- if .Bare}}
	depmock.RegisterInterface[{{.Type}}](nil)
{{- else}}
	depmock.RegisterInterface(func(m *depmock.Mock) {{.Type}} { return &{{.Double}}{mock: m} })
{{- end}}
{{- end}}
{{- range .Contracts}}
	depmock.RegisterContract[{{.Type}}](func(m *depmock.Mock) {{.Contract}} { return &{{.Double}}{mock: m} })
{{- end}}
{{- range .Hosts}}
	depmock.RegisterHost[{{.Type}}](depmock.Docs{
{{- range .Docs}}
		{{.Key}}: {{.Text}},
{{- end}}
	})
{{- end}}
}
`
)
