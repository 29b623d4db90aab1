// Package output formats generated code and writes it next to the package it serves.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
	"golang.org/x/tools/imports"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// FileName returns the file generated code for name is written to: generated_<name>.go, or
// generated_<name>_test.go when the code belongs to a test package or a test file asked for it.
func FileName(name, pkgName string, getEnv func(string) string) string {
	name = strings.TrimSuffix(name, ".go")
	filename := "generated_" + name

	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(getEnv("GOFILE"), "_test.go")
	if isTestFile && !strings.HasSuffix(name, "_test") {
		filename += "_test"
	}

	return filename + ".go"
}

// WriteGeneratedCode formats code, drops unused imports, orders its declarations, and writes it.
func WriteGeneratedCode(
	code string, name string, pkgName string, getEnv func(string) string, fileWriter Writer, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	filename := FileName(name, pkgName, getEnv)

	formatted, err := imports.Process(filename, []byte(code), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return fmt.Errorf("error formatting %s: %w", filename, err)
	}

	// Reorder declarations according to project conventions
	reordered, err := reorder.Source(string(formatted))
	if err != nil {
		// If reordering fails, log but continue with the formatted code
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = string(formatted)
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}
