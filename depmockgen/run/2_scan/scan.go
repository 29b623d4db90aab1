// Package scan finds the hosts of a package, their dependency declarations, and the
// method sets of the dependency types they declare.
package scan

import (
	"fmt"
	"go/token"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"

	astutil "github.com/toejough/depmock/depmockgen/run/0_util"
	"github.com/toejough/depmock/internal/core"
)

// Kind says how a dependency is registered.
type Kind int

// Dependency kinds.
const (
	// KindInterface dependencies get a double implementing the interface.
	KindInterface Kind = iota
	// KindStruct dependencies get a contract interface and a double implementing it.
	KindStruct
)

// Dependency is a declared dependency type found in the package.
type Dependency struct {
	Name    string // unqualified
	Type    string // as written in the generated file
	Kind    Kind
	Methods []Method
}

// Doc is the declaration-carrying documentation of one host method.
type Doc struct {
	Method string // empty for the constructor
	Lines  []string
}

// Host is a type with at least one documented dependency declaration.
type Host struct {
	Name string
	Type string
	Docs []Doc
}

// Method is an exported operation of a dependency.
type Method struct {
	Name    string
	Params  []Param
	Results []string
}

// IsDispatch reports whether the method has the Dispatcher shape.
func (m Method) IsDispatch() bool {
	return m.Name == core.DispatchOperation &&
		len(m.Params) == 2 && m.Params[0].Type == "string" &&
		m.Params[1].Variadic && m.Params[1].Type == "...any" &&
		len(m.Results) == 1 && m.Results[0] == "[]any"
}

// Options configures a scan.
type Options struct {
	// Package is the name of the package whose files are scanned.
	Package string
	// Qualifier, when set, prefixes package-local type names, for generated files in the
	// external test package.
	Qualifier string
	// Tag is the declaration tag, without the @.
	Tag string
	// Hosts restricts the scan to the named hosts.
	Hosts []string
}

// Result is what a scan found.
type Result struct {
	Hosts        []Host
	Dependencies []Dependency
	// Imports maps package names used by dependency signatures to their import paths.
	Imports  map[string]string
	Warnings []string
}

// Package scans files.
func Package(files []*dst.File, opts Options) *Result {
	if opts.Tag == "" {
		opts.Tag = core.DefaultNotation
	}

	s := &scanner{
		opts:         opts,
		types:        make(map[string]typeInfo),
		methods:      make(map[string][]funcInfo),
		constructors: make(map[string]funcInfo),
		result:       &Result{Imports: make(map[string]string)},
	}

	for _, file := range files {
		if file.Name.Name == opts.Package {
			s.collect(file)
		}
	}

	s.findHosts()
	s.findDependencies()

	return s.result
}

// unexported constants.
const (
	errorType = "error"
)

// unexported variables.
var (
	//nolint:gochecknoglobals // compiled once
	versionSuffix = regexp.MustCompile(`^v[0-9]+$`)
	//nolint:gochecknoglobals // names generated code declares itself
	reservedParams = []string{"_", "d", "values", "depmock"}
)

type funcInfo struct {
	decl *dst.FuncDecl
	file *dst.File
}

type scanner struct {
	opts         Options
	typeOrder    []string
	types        map[string]typeInfo
	methods      map[string][]funcInfo
	constructors map[string]funcInfo
	result       *Result
}

func (s *scanner) collect(file *dst.File) {
	for _, decl := range file.Decls {
		switch typed := decl.(type) {
		case *dst.GenDecl:
			if typed.Tok != token.TYPE {
				continue
			}

			for _, spec := range typed.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok {
					continue
				}

				s.typeOrder = append(s.typeOrder, typeSpec.Name.Name)
				s.types[typeSpec.Name.Name] = typeInfo{spec: typeSpec, file: file}
			}
		case *dst.FuncDecl:
			info := funcInfo{decl: typed, file: file}

			if typed.Recv == nil || len(typed.Recv.List) == 0 {
				if host, ok := strings.CutPrefix(typed.Name.Name, "New"); ok && host != "" {
					s.constructors[host] = info
				}

				continue
			}

			receiver := receiverTypeName(typed.Recv.List[0].Type)
			s.methods[receiver] = append(s.methods[receiver], info)
		}
	}
}

func (s *scanner) dependency(name string) (Dependency, error) {
	info, ok := s.types[name]
	if !ok {
		return Dependency{}, fmt.Errorf("%s is not declared in package %s", name, s.opts.Package)
	}

	if info.spec.TypeParams != nil {
		return Dependency{}, fmt.Errorf("%s is generic", name)
	}

	if s.opts.Qualifier != "" && !token.IsExported(name) {
		return Dependency{}, fmt.Errorf("%s is unexported and the generated file is in an external test package", name)
	}

	dep := Dependency{Name: name, Type: s.qualify(name)}

	switch typed := info.spec.Type.(type) {
	case *dst.InterfaceType:
		methods, err := s.interfaceMethods(name, typed, info.file, map[string]bool{})
		if err != nil {
			return Dependency{}, err
		}

		dep.Kind = KindInterface
		dep.Methods = methods
	case *dst.StructType:
		dep.Kind = KindStruct

		for _, fn := range s.methods[name] {
			if token.IsExported(fn.decl.Name.Name) {
				dep.Methods = append(dep.Methods, s.method(fn.decl.Name.Name, fn.decl.Type, fn.file))
			}
		}
	default:
		return Dependency{}, fmt.Errorf("%s has no extension points", name)
	}

	slices.SortFunc(dep.Methods, func(a, b Method) int { return strings.Compare(a.Name, b.Name) })

	return dep, nil
}

func (s *scanner) findDependencies() {
	seen := make(map[string]bool)

	for _, host := range s.result.Hosts {
		for _, doc := range host.Docs {
			for _, line := range doc.Lines {
				names, _ := core.ParseDeclarationLine(line, s.opts.Tag)
				for _, declared := range names {
					name, ok := s.localName(declared)
					if seen[name] {
						continue
					}

					seen[name] = true

					if !ok {
						s.warnf("%s is declared in another package; register it by hand", declared)

						continue
					}

					s.addDependency(name)
				}
			}
		}
	}
}

func (s *scanner) addDependency(name string) {
	dep, err := s.dependency(name)
	if err != nil {
		s.warnf("%v; register it by hand", err)

		return
	}

	s.result.Dependencies = append(s.result.Dependencies, dep)
}

func (s *scanner) findHosts() {
	for _, wanted := range s.opts.Hosts {
		if _, ok := s.types[wanted]; !ok {
			s.warnf("host %s not found in package %s", wanted, s.opts.Package)
		}
	}

	for _, name := range s.typeOrder {
		if len(s.opts.Hosts) > 0 && !slices.Contains(s.opts.Hosts, name) {
			continue
		}

		var docs []Doc

		if ctor, ok := s.constructors[name]; ok {
			if lines := declarationLines(ctor.decl.Decs.Start.All()); len(lines) > 0 {
				docs = append(docs, Doc{Lines: lines})
			}
		}

		for _, fn := range s.methods[name] {
			lines := declarationLines(fn.decl.Decs.Start.All())
			if len(lines) == 0 {
				continue
			}

			// Method lookup at run time only sees exported methods.
			if !token.IsExported(fn.decl.Name.Name) {
				if s.declaresAny([]Doc{{Lines: lines}}) {
					s.warnf("%s.%s is unexported; its declarations are skipped", name, fn.decl.Name.Name)
				}

				continue
			}

			docs = append(docs, Doc{Method: fn.decl.Name.Name, Lines: lines})
		}

		if !s.declaresAny(docs) {
			continue
		}

		if s.types[name].spec.TypeParams != nil {
			s.warnf("host %s is generic; register it by hand", name)

			continue
		}

		if s.opts.Qualifier != "" && !token.IsExported(name) {
			s.warnf("host %s is unexported and the generated file is in an external test package", name)

			continue
		}

		slices.SortStableFunc(docs, func(a, b Doc) int { return strings.Compare(a.Method, b.Method) })
		s.result.Hosts = append(s.result.Hosts, Host{Name: name, Type: s.qualify(name), Docs: docs})
	}
}

func (s *scanner) declaresAny(docs []Doc) bool {
	for _, doc := range docs {
		for _, line := range doc.Lines {
			if _, ok := core.ParseDeclarationLine(line, s.opts.Tag); ok {
				return true
			}
		}
	}

	return false
}

func (s *scanner) interfaceMethods(
	name string, iface *dst.InterfaceType, file *dst.File, visited map[string]bool,
) ([]Method, error) {
	if visited[name] {
		return nil, nil
	}

	visited[name] = true

	var methods []Method

	if iface.Methods == nil {
		return methods, nil
	}

	for _, field := range iface.Methods.List {
		if funcType, ok := field.Type.(*dst.FuncType); ok && len(field.Names) > 0 {
			if !token.IsExported(field.Names[0].Name) {
				return nil, fmt.Errorf("%s has unexported method %s", name, field.Names[0].Name)
			}

			methods = append(methods, s.method(field.Names[0].Name, funcType, file))

			continue
		}

		embedded, ok := field.Type.(*dst.Ident)
		if !ok {
			return nil, fmt.Errorf("%s embeds %s", name, astutil.StringifyExpr(field.Type))
		}

		if embedded.Name == errorType {
			methods = append(methods, Method{Name: "Error", Results: []string{"string"}})

			continue
		}

		info, ok := s.types[embedded.Name]
		if !ok {
			return nil, fmt.Errorf("%s embeds %s, which is not declared in package %s", name, embedded.Name, s.opts.Package)
		}

		inner, ok := info.spec.Type.(*dst.InterfaceType)
		if !ok {
			return nil, fmt.Errorf("%s embeds %s, which is not an interface", name, embedded.Name)
		}

		innerMethods, err := s.interfaceMethods(embedded.Name, inner, info.file, visited)
		if err != nil {
			return nil, err
		}

		for _, method := range innerMethods {
			if !slices.ContainsFunc(methods, func(m Method) bool { return m.Name == method.Name }) {
				methods = append(methods, method)
			}
		}
	}

	return methods, nil
}

// localName strips a pointer star and this package's qualifier from a declared name. It
// reports false for names qualified by another package.
func (s *scanner) localName(declared string) (string, bool) {
	name := strings.TrimPrefix(declared, "*")

	pkg, local, ok := strings.Cut(name, ".")
	if !ok {
		return name, true
	}

	if pkg != s.opts.Package || local == "" {
		return name, false
	}

	return local, true
}

func (s *scanner) method(name string, funcType *dst.FuncType, file *dst.File) Method {
	printer := s.printer(file)
	method := Method{Name: name}

	if funcType.Params != nil {
		for _, field := range funcType.Params.List {
			_, variadic := field.Type.(*dst.Ellipsis)
			typ := printer.Expr(field.Type)

			names := field.Names
			if len(names) == 0 {
				names = []*dst.Ident{{Name: ""}}
			}

			for _, ident := range names {
				paramName := ident.Name
				if paramName == "" || slices.Contains(reservedParams, paramName) {
					paramName = "arg" + strconv.Itoa(len(method.Params))
				}

				method.Params = append(method.Params, Param{Name: paramName, Type: typ, Variadic: variadic})
			}
		}
	}

	if funcType.Results != nil {
		method.Results = astutil.ExpandFieldListTypes(funcType.Results.List, printer.Expr)
	}

	return method
}

func (s *scanner) printer(file *dst.File) astutil.Printer {
	imports := fileImports(file)

	return astutil.Printer{
		Qualify: s.qualify,
		UsePackage: func(pkg string) {
			if importPath, ok := imports[pkg]; ok {
				s.result.Imports[pkg] = importPath
			}
		},
	}
}

func (s *scanner) qualify(name string) string {
	if s.opts.Qualifier == "" {
		return name
	}

	if _, ok := s.types[name]; !ok {
		return name
	}

	return s.opts.Qualifier + "." + name
}

func (s *scanner) warnf(format string, args ...any) {
	s.result.Warnings = append(s.result.Warnings, fmt.Sprintf(format, args...))
}

// Param is one parameter of a dependency method.
type Param struct {
	Name     string
	Type     string // variadic parameters keep their ... prefix
	Variadic bool
}

type typeInfo struct {
	spec *dst.TypeSpec
	file *dst.File
}

// declarationLines strips comment markers and keeps the lines carrying an @ tag.
func declarationLines(comments []string) []string {
	var lines []string

	for _, comment := range comments {
		text := comment
		if body, ok := strings.CutPrefix(text, "/*"); ok {
			text = strings.TrimSuffix(body, "*/")
		} else {
			text = strings.TrimPrefix(text, "//")
		}

		for line := range strings.SplitSeq(text, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			if strings.Contains(line, "@") {
				lines = append(lines, line)
			}
		}
	}

	return lines
}

func fileImports(file *dst.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))

	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := path.Base(importPath)
		if versionSuffix.MatchString(name) {
			name = path.Base(path.Dir(importPath))
		}

		if spec.Name != nil {
			name = spec.Name.Name
		}

		imports[name] = importPath
	}

	return imports
}

func receiverTypeName(expr dst.Expr) string {
	switch typed := expr.(type) {
	case *dst.Ident:
		return typed.Name
	case *dst.StarExpr:
		return receiverTypeName(typed.X)
	case *dst.IndexExpr:
		return receiverTypeName(typed.X)
	case *dst.IndexListExpr:
		return receiverTypeName(typed.X)
	default:
		return ""
	}
}
