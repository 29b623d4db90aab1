// Package load reads the package depmockgen generates for.
package load

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
)

// Package is a parsed package directory.
type Package struct {
	// Name is the package clause of the non-test files.
	Name string
	// ImportPath is the path other packages import it by.
	ImportPath string
	// Files holds every parsed .go file of the directory, test files included.
	Files []*dst.File
	Fset  *token.FileSet
}

// Dir loads the package in dir.
func Dir(dir string) (*Package, error) {
	files, fset, err := PackageDST(dir)
	if err != nil {
		return nil, err
	}

	name, importPath, err := PackageName(dir)
	if err != nil {
		return nil, err
	}

	return &Package{Name: name, ImportPath: importPath, Files: files, Fset: fset}, nil
}

// PackageDST parses every .go file in dir, test files included, skipping files that do
// not parse and files depmockgen generated earlier.
func PackageDST(dir string) ([]*dst.File, *token.FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, generatedPrefix) {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: no .go files in %s", errNoPackagesFound, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	allFiles := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		dstFile, err := dec.ParseFile(goFile, nil, parser.ParseComments)
		if err != nil {
			continue
		}

		allFiles = append(allFiles, dstFile)
	}

	if len(allFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoPackagesFound, dir)
	}

	return allFiles, fset, nil
}

// PackageName asks the go tool for the name and import path of the package in dir.
func PackageName(dir string) (string, string, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName, Dir: dir}, ".")
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve package in %s: %w", dir, err)
	}

	if len(pkgs) == 0 || pkgs[0].PkgPath == "" {
		return "", "", fmt.Errorf("%w: %s", errNoPackagesFound, dir)
	}

	return pkgs[0].Name, pkgs[0].PkgPath, nil
}

// unexported constants.
const (
	generatedPrefix = "generated_"
)

// unexported variables.
var (
	errNoPackagesFound = errors.New("no packages found")
)
