// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts the text layer of PDF files into plain UTF-8
// text, one file per PDF, ready for the entry parser.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/jftlv/pkg/types"
)

// Converter transforms a PDF file into plain text.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns its text, pages in reading
	// order.
	Convert(pdfPath string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// TextPath returns where the text for pdfPath is written under outDir.
func TextPath(pdfPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(outDir, base+".txt")
}

// ConvertFile converts a single PDF and writes the text to outDir. If the
// text file already exists and cfg.Force is false, it skips conversion and
// returns ConversionNone.
func ConvertFile(c Converter, pdfPath string, cfg types.ConversionConfig, w io.Writer) types.ConversionStatus {
	txtPath := TextPath(pdfPath, cfg.OutputDir)
	base := filepath.Base(txtPath)

	if !cfg.Force {
		if _, err := os.Stat(txtPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
			return types.ConversionNone
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	text, err := c.Convert(pdfPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return types.ConversionDone
}

// ConvertBatch converts a list of PDFs, printing per-file status to w and
// returning a summary.
func ConvertBatch(c Converter, pdfPaths []string, cfg types.ConversionConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		switch ConvertFile(c, p, cfg, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
