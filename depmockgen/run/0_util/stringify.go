// Package astutil provides shared utilities for rendering DST type expressions.
package astutil

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// Printer renders type expressions back to Go source.
type Printer struct {
	// Qualify, when set, rewrites bare identifiers. It is how package-local type names
	// become pkg.Name in an external test package.
	Qualify func(name string) string
	// UsePackage, when set, is told the package name of every pkg.Name selector.
	UsePackage func(pkg string)
}

// Expr converts a DST expression to its string representation.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func (p Printer) Expr(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		if p.Qualify != nil {
			return p.Qualify(typedExpr.Name)
		}

		return typedExpr.Name
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		if pkg, ok := typedExpr.X.(*dst.Ident); ok {
			if p.UsePackage != nil {
				p.UsePackage(pkg.Name)
			}

			return pkg.Name + "." + typedExpr.Sel.Name
		}

		return p.Expr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + p.Expr(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + p.Expr(typedExpr.Len) + "]" + p.Expr(typedExpr.Elt)
		}

		return "[]" + p.Expr(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + p.Expr(typedExpr.Key) + "]" + p.Expr(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + p.Expr(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + p.Expr(typedExpr.Value)
		default:
			return "chan " + p.Expr(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return p.interfaceType(typedExpr)
	case *dst.StructType:
		return p.structType(typedExpr)
	case *dst.FuncType:
		return "func" + p.Signature(typedExpr)
	case *dst.Ellipsis:
		return "..." + p.Expr(typedExpr.Elt)
	case *dst.IndexExpr:
		return p.Expr(typedExpr.X) + "[" + p.Expr(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = p.Expr(idx)
		}

		return p.Expr(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + p.Expr(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Signature renders the parameter and result lists of funcType, without names.
func (p Printer) Signature(funcType *dst.FuncType) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, p.Expr), ", "))
	}

	buf.WriteString(")")

	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return buf.String()
	}

	resultParts := ExpandFieldListTypes(funcType.Results.List, p.Expr)
	if len(resultParts) > 1 {
		buf.WriteString(" (" + strings.Join(resultParts, ", ") + ")")
	} else {
		buf.WriteString(" " + resultParts[0])
	}

	return buf.String()
}

func (p Printer) interfaceType(interfaceType *dst.InterfaceType) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			parts = append(parts, p.Expr(method.Type))

			continue
		}

		parts = append(parts, method.Names[0].Name+p.Signature(funcType))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

func (p Printer) structType(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(p.Expr(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// StringifyExpr converts a DST expression to its string representation, unqualified.
func StringifyExpr(expr dst.Expr) string {
	return Printer{}.Expr(expr)
}
