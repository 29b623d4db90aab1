// Package generate renders the registrations and doubles for a scanned package.
package generate

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	scan "github.com/toejough/depmock/depmockgen/run/2_scan"
)

// DepmockImportPath is the import path generated code registers through.
const DepmockImportPath = "github.com/toejough/depmock"

// Input is everything the generated file is rendered from.
type Input struct {
	// Package is the package clause of the generated file.
	Package string
	// Imports maps package names to import paths, besides depmock itself.
	Imports map[string]string
	Scan    *scan.Result
}

// File renders the generated source. The result is not yet formatted.
func File(input Input) string {
	registry := NewTemplateRegistry()

	var buf bytes.Buffer

	registry.WriteHeader(&buf, headerData{Package: input.Package, Imports: sortedImports(input.Imports)})

	data := registrationData{}

	for _, host := range input.Scan.Hosts {
		data.Hosts = append(data.Hosts, newHostData(host))
	}

	for _, dep := range input.Scan.Dependencies {
		double := newDoubleData(dep)

		switch {
		case dep.Kind == scan.KindStruct:
			registry.WriteContract(&buf, double)
			data.Contracts = append(data.Contracts, double)
		case double.Bare:
			data.Interfaces = append(data.Interfaces, double)

			continue
		default:
			data.Interfaces = append(data.Interfaces, double)
		}

		registry.WriteDouble(&buf, double)
	}

	registry.WriteRegistrations(&buf, data)

	return buf.String()
}

type docData struct {
	Key  string
	Text string
}

type doubleData struct {
	Type     string
	Contract string
	Double   string
	Bare     bool
	Methods  []methodData
}

type headerData struct {
	Package string
	Imports []importData
}

type hostData struct {
	Type string
	Docs []docData
}

type importData struct {
	Name string
	Path string
}

type methodData struct {
	Name      string
	Signature string
	Call      string
	Forward   string
	Results   []string
	Dispatch  bool
}

// Return renders the return statement converting the injected values.
func (m methodData) Return() string {
	parts := make([]string, len(m.Results))
	for i, result := range m.Results {
		parts[i] = "depmock.Result[" + result + "](values, " + strconv.Itoa(i) + ")"
	}

	return "return " + strings.Join(parts, ", ")
}

type registrationData struct {
	Interfaces []doubleData
	Contracts  []doubleData
	Hosts      []hostData
}

func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToLower(r)) + name[size:]
}

func newDoubleData(dep scan.Dependency) doubleData {
	double := doubleData{
		Type:   dep.Type,
		Double: lowerFirst(dep.Name) + "Double",
	}

	if dep.Kind == scan.KindStruct {
		double.Contract = dep.Name + "Contract"
	}

	for _, method := range dep.Methods {
		double.Methods = append(double.Methods, newMethodData(method))
	}

	double.Bare = dep.Kind == scan.KindInterface &&
		(len(dep.Methods) == 0 || len(dep.Methods) == 1 && dep.Methods[0].IsDispatch())

	return double
}

func newHostData(host scan.Host) hostData {
	data := hostData{Type: host.Type}

	for _, doc := range host.Docs {
		key := strconv.Quote(doc.Method)
		if doc.Method == "" {
			key = "depmock.Constructor"
		}

		data.Docs = append(data.Docs, docData{Key: key, Text: strconv.Quote(strings.Join(doc.Lines, "\n"))})
	}

	return data
}

func newMethodData(method scan.Method) methodData {
	params := make([]string, len(method.Params))
	args := []string{strconv.Quote(method.Name)}

	for i, param := range method.Params {
		params[i] = param.Name + " " + param.Type
		args = append(args, param.Name)
	}

	signature := "(" + strings.Join(params, ", ") + ")"

	var forward string
	if method.IsDispatch() {
		forward = method.Params[0].Name + ", " + method.Params[1].Name + "..."
	}

	switch len(method.Results) {
	case 0:
	case 1:
		signature += " " + method.Results[0]
	default:
		signature += " (" + strings.Join(method.Results, ", ") + ")"
	}

	return methodData{
		Name:      method.Name,
		Signature: signature,
		Call:      strings.Join(args, ", "),
		Forward:   forward,
		Results:   slices.Clone(method.Results),
		Dispatch:  method.IsDispatch(),
	}
}

func sortedImports(imports map[string]string) []importData {
	result := []importData{{Name: "depmock", Path: DepmockImportPath}}

	for name, path := range imports {
		result = append(result, importData{Name: name, Path: path})
	}

	slices.SortFunc(result, func(a, b importData) int { return strings.Compare(a.Path, b.Path) })

	return result
}
