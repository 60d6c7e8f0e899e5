// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Format is the table of source-specific literals the parser looks for.
// Supplying a different Format lets the same engine read another edition or
// language without touching the segmentation or extraction code.
type Format struct {
	// Name identifies the table (e.g. "lv").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Months lists the twelve month names in calendar order, January first.
	// Matching is case-insensitive.
	Months []string `json:"months" yaml:"months" mapstructure:"months"`

	// ReferenceMarker is the citation prefix (e.g. "Bāzes teksts").
	ReferenceMarker string `json:"reference_marker" yaml:"reference_marker" mapstructure:"reference_marker"`

	// ReferenceKeywords are matched independently when the marker itself is
	// not found, e.g. because extraction split or mangled it.
	ReferenceKeywords []string `json:"reference_keywords" yaml:"reference_keywords" mapstructure:"reference_keywords"`

	// AffirmationMarker is the phrase an affirmation line starts with.
	AffirmationMarker string `json:"affirmation_marker" yaml:"affirmation_marker" mapstructure:"affirmation_marker"`

	// QuoteOpen lists the opening quotation marks.
	QuoteOpen []string `json:"quote_open" yaml:"quote_open" mapstructure:"quote_open"`

	// QuoteClose lists the closing quotation marks.
	QuoteClose []string `json:"quote_close" yaml:"quote_close" mapstructure:"quote_close"`

	// MinLines is the smallest number of content lines a block needs to be
	// turned into an entry (default 2: a title plus at least one more line).
	MinLines int `json:"min_lines" yaml:"min_lines" mapstructure:"min_lines"`
}

// Validate reports the first structural problem with the table.
func (f Format) Validate() error {
	if len(f.Months) != 12 {
		return fmt.Errorf("format %q: want 12 month names, got %d", f.Name, len(f.Months))
	}
	seen := make(map[string]bool, 12)
	for i, m := range f.Months {
		key := strings.ToLower(strings.TrimSpace(m))
		if key == "" {
			return fmt.Errorf("format %q: month %d is empty", f.Name, i+1)
		}
		if seen[key] {
			return fmt.Errorf("format %q: duplicate month name %q", f.Name, m)
		}
		seen[key] = true
	}
	if strings.TrimSpace(f.ReferenceMarker) == "" {
		return fmt.Errorf("format %q: reference marker is empty", f.Name)
	}
	if strings.TrimSpace(f.AffirmationMarker) == "" {
		return fmt.Errorf("format %q: affirmation marker is empty", f.Name)
	}
	if len(f.QuoteOpen) == 0 || len(f.QuoteClose) == 0 {
		return fmt.Errorf("format %q: opening and closing quote marks are required", f.Name)
	}
	if f.MinLines < 0 {
		return fmt.Errorf("format %q: min_lines must not be negative", f.Name)
	}
	return nil
}
