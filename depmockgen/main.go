// depmockgen generates dependency registrations and doubles for depmock.
// To use it, install it with `go install github.com/toejough/depmock/depmockgen@latest`
// and in a test file, add a `//go:generate depmockgen` comment. The tool scans the package for
// methods whose docs declare `@depends` lines, and writes generated_depmock_test.go registering
// each host's docs, each declared dependency type, and a double for it. Pass host names to
// restrict the scan, `--tag` to change the declaration tag, and `--dir` to scan another directory.
package main

import (
	"fmt"
	"os"

	"github.com/toejough/depmock/depmockgen/run"
	load "github.com/toejough/depmock/depmockgen/run/1_load"
)

// main is the entry point of the depmockgen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader by parsing the directory and asking the go tool
// for its import path.
type realPackageLoader struct{}

// Load loads the package in dir.
func (pl *realPackageLoader) Load(dir string) (*load.Package, error) {
	pkg, err := load.Dir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", dir, err)
	}

	return pkg, nil
}
