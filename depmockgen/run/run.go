// Package run implements the main logic for the depmockgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"

	load "github.com/toejough/depmock/depmockgen/run/1_load"
	scan "github.com/toejough/depmock/depmockgen/run/2_scan"
	generate "github.com/toejough/depmock/depmockgen/run/3_generate"
	output "github.com/toejough/depmock/depmockgen/run/4_output"
)

// Interfaces - Public

// FileSystem interface for mocking.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader loads the package in a directory.
type PackageLoader interface {
	Load(dir string) (*load.Package, error)
}

// Functions - Public

// Run executes the depmockgen tool logic. It scans the package in the target directory for
// hosts declaring dependencies, then writes a file registering those hosts, their dependency
// types, and a double for each dependency, in the package go generate was invoked from.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	pkg, err := pkgLoader.Load(parsed.Dir)
	if err != nil {
		return fmt.Errorf("failed to load package in %s: %w", parsed.Dir, err)
	}

	pkgName := getEnv("GOPACKAGE")
	if pkgName == "" {
		pkgName = pkg.Name
	}

	opts := scan.Options{Package: pkg.Name, Tag: parsed.Tag, Hosts: parsed.Types}
	imports := make(map[string]string)

	if pkgName != pkg.Name {
		opts.Qualifier = pkg.Name
		imports[pkg.Name] = pkg.ImportPath
	}

	result := scan.Package(pkg.Files, opts)

	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(out, "Warning: %s\n", warning)
	}

	if len(result.Hosts) == 0 {
		return fmt.Errorf("%w: package %s has no @%s declarations", errNoHosts, pkg.Name, opts.Tag)
	}

	for name, path := range result.Imports {
		imports[name] = path
	}

	code := generate.File(generate.Input{Package: pkgName, Imports: imports, Scan: result})

	return output.WriteGeneratedCode(code, parsed.Name, pkgName, getEnv, dirWriter{dir: parsed.Dir, fs: fileSys}, out)
}

// Structs - Private

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Types []string `arg:"positional"                    help:"hosts to generate for (defaults to every host in the package)"`
	Tag   string   `arg:"--tag"  default:"depends"      help:"declaration tag, without the @"`
	Name  string   `arg:"--name" default:"depmock"      help:"generated file is named generated_<name>.go"`
	Dir   string   `arg:"--dir"  default:"."            help:"directory of the package to scan"`
}

// dirWriter writes files into the scanned directory.
type dirWriter struct {
	dir string
	fs  FileSystem
}

func (w dirWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	return w.fs.WriteFile(filepath.Join(w.dir, name), data, perm) //nolint:wrapcheck // callers wrap
}

// Functions - Private

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "depmockgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	parsed.Tag = strings.TrimPrefix(strings.TrimSpace(parsed.Tag), "@")
	if parsed.Tag == "" {
		return cliArgs{}, fmt.Errorf("%w: --tag must not be empty", errInvalidArgs)
	}

	return parsed, nil
}

// unexported variables.
var (
	errInvalidArgs = errors.New("invalid arguments")
	errNoHosts     = errors.New("no hosts found")
)
