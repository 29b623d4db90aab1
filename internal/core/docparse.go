package core

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultNotation is the tag that marks dependency declarations when none is set.
const DefaultNotation = "depends"

// ExtractDependencyNames returns, in line order, every type name declared after
// "@"+tag in the documentation of method on host. A method without such lines declares
// nothing; that is not an error.
func ExtractDependencyNames(host *HostEntry, method, tag string) ([]string, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: nil host", ErrInvalidClass)
	}

	if !host.HasMethod(method) {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrUnknownMethod, host.Name, method)
	}

	if tag == "" {
		tag = DefaultNotation
	}

	var names []string

	for _, line := range host.DocLines(method) {
		declared, ok := ParseDeclarationLine(line, tag)
		if ok {
			names = append(names, declared...)
		}
	}

	return names, nil
}

// ExtractDependencyNames looks host up by name and extracts the names declared on method.
func (tt *TypeTable) ExtractDependencyNames(host, method, tag string) ([]string, error) {
	entry, err := tt.LookupHost(host)
	if err != nil {
		return nil, err
	}

	return ExtractDependencyNames(entry, method, tag)
}

// ParseDeclarationLine reports whether line carries "@"+tag and returns the names that
// follow it, up to a repeated tag. Commas, semicolons, parentheses and whitespace all
// separate names.
func ParseDeclarationLine(line, tag string) ([]string, bool) {
	_, after, found := strings.Cut(line, "@"+tag)
	if !found {
		return nil, false
	}

	after, _, _ = strings.Cut(after, "@"+tag)

	return strings.FieldsFunc(after, isDeclarationSeparator), true
}

func isDeclarationSeparator(r rune) bool {
	switch r {
	case ',', ';', '(', ')':
		return true
	default:
		return unicode.IsSpace(r)
	}
}
