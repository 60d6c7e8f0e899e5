// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/jftlv/pkg/types"
)

const defaultMinLines = 2

// Latvian returns the marker table for the Latvian edition of the book.
func Latvian() types.Format {
	return types.Format{
		Name: "lv",
		Months: []string{
			"janvāris", "februāris", "marts", "aprīlis",
			"maijs", "jūnijs", "jūlijs", "augusts",
			"septembris", "oktobris", "novembris", "decembris",
		},
		ReferenceMarker:   "Bāzes teksts",
		ReferenceKeywords: []string{"Bāzes", "tekst"},
		AffirmationMarker: "Tikai šodien",
		QuoteOpen:         []string{"“", "„"},
		QuoteClose:        []string{"”", "“"},
		MinLines:          defaultMinLines,
	}
}

// LoadFormat reads a marker table from a YAML file and validates it.
func LoadFormat(path string) (types.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Format{}, fmt.Errorf("reading format file %s: %w", path, err)
	}
	var f types.Format
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.Format{}, fmt.Errorf("parsing format file %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := f.Validate(); err != nil {
		return types.Format{}, err
	}
	return f, nil
}

// normalizeFormat composes every literal in f to NFC so that it compares
// equal to normalized input lines, and fills defaults.
func normalizeFormat(f types.Format) types.Format {
	out := types.Format{
		Name:              f.Name,
		Months:            nfcAll(f.Months),
		ReferenceMarker:   norm.NFC.String(strings.TrimSpace(f.ReferenceMarker)),
		ReferenceKeywords: nfcAll(f.ReferenceKeywords),
		AffirmationMarker: norm.NFC.String(strings.TrimSpace(f.AffirmationMarker)),
		QuoteOpen:         nfcAll(f.QuoteOpen),
		QuoteClose:        nfcAll(f.QuoteClose),
		MinLines:          f.MinLines,
	}
	if out.MinLines == 0 {
		out.MinLines = defaultMinLines
	}
	return out
}

func nfcAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = norm.NFC.String(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
