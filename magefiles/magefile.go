//go:build mage

// Package main contains Mage build targets for jftlv developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// dataDirs lists the working directories the pipeline expects.
var dataDirs = []string{
	"data/pdf",
	"data/text",
	"data/json",
	"data/index",
}

const (
	binDir  = "bin"
	binName = "jftlv"
	cmdPkg  = "./cmd/jftlv"
)

// Init creates the data directory structure for the pipeline.
func Init() error {
	for _, dir := range dataDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Data directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Pipeline converts every PDF in data/pdf, parses the text into data/json,
// and ingests the JSON into the store.
func Pipeline() error {
	mg.SerialDeps(Init, Build)

	pdfs, err := filepath.Glob(filepath.Join("data/pdf", "*.pdf"))
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Println("No PDFs in data/pdf.")
		return nil
	}

	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, append([]string{"convert", "--output-dir", "data/text"}, pdfs...)...); err != nil {
		return err
	}

	var outputs []string
	for _, pdf := range pdfs {
		base := strings.TrimSuffix(filepath.Base(pdf), filepath.Ext(pdf))
		text := filepath.Join("data/text", base+".txt")
		out := filepath.Join("data/json", base+".json")
		if err := sh.RunV(bin, "parse", text, "--output", out); err != nil {
			return err
		}
		outputs = append(outputs, out)
	}

	return sh.RunV(bin, append([]string{"store", "ingest", "--store-dir", "data/index"}, outputs...)...)
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in Go files under root, split into
// production and test files. Directories starting with "_" or "." are
// skipped, as the go tool does.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
