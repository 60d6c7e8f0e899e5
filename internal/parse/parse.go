// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns the linear text of the daily-reading book into entry
// records. Parsing runs in two passes: the segmenter splits the line stream
// into one block per date label, and the field extractor pulls title, quote,
// reference, body, and affirmation out of each block by line position and
// marker phrases.
//
// All source-specific literals come from a types.Format table, and the
// processing year is injected through types.ParserConfig, so a run is fully
// determined by its input and configuration.
package parse

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/jftlv/pkg/types"
)

// Errors returned by Extract for blocks that cannot become an entry. Parse
// skips such blocks and records a warning; they never abort the batch.
var (
	ErrUnparseableDate = errors.New("unparseable date label")
	ErrInvalidDate     = errors.New("invalid calendar date")
	ErrShortBlock      = errors.New("block too short")
)

// Severity grades a diagnostic.
type Severity string

const (
	// SeverityInfo marks a missing optional field; the entry is still emitted.
	SeverityInfo Severity = "info"
	// SeverityWarning marks a block that was skipped.
	SeverityWarning Severity = "warning"
)

// Diagnostic describes something noteworthy about one block.
type Diagnostic struct {
	Severity Severity
	// Block is the zero-based index of the block in segmentation order.
	Block int
	Label string
	// Field is the entry field concerned ("date", "quote", "reference",
	// "affirmation") or "block" for the block as a whole.
	Field string
	// Strategy names the matcher that located the field, when relevant.
	Strategy string
	Message  string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: block %d (%s) %s: %s", d.Severity, d.Block, d.Label, d.Field, d.Message)
	if d.Strategy != "" {
		s += " [" + d.Strategy + "]"
	}
	return s
}

// Result is the outcome of parsing one document.
type Result struct {
	// Entries are the emitted records in source block order.
	Entries []types.Entry
	// Diagnostics lists skipped blocks and missing fields.
	Diagnostics []Diagnostic
	// Labels counts recognized date labels, including ones whose block had
	// no content and was dropped.
	Labels int
	// Blocks counts non-empty blocks handed to the extractor.
	Blocks int
	// Skipped counts blocks the extractor rejected.
	Skipped int
}

// Warnings returns the diagnostics for skipped blocks.
func (r Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Parser holds the compiled marker table for one source format. A Parser
// has no mutable state and may be reused.
type Parser struct {
	format      types.Format
	year        int
	sep         string
	dateRe      *regexp.Regexp
	reference   Chain
	affirmation Chain
}

// New compiles a parser from cfg. When cfg.Format is empty the table is
// loaded from cfg.FormatFile, or the built-in Latvian table is used.
func New(cfg types.ParserConfig) (*Parser, error) {
	if cfg.Year < 1 || cfg.Year > 9999 {
		return nil, fmt.Errorf("processing year %d out of range 1-9999", cfg.Year)
	}
	if !cfg.Join.Valid() {
		return nil, fmt.Errorf("unknown join mode %q: use %q or %q", cfg.Join, types.JoinSpace, types.JoinNewline)
	}

	f := cfg.Format
	if len(f.Months) == 0 {
		if cfg.FormatFile != "" {
			loaded, err := LoadFormat(cfg.FormatFile)
			if err != nil {
				return nil, err
			}
			f = loaded
		} else {
			f = Latvian()
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = normalizeFormat(f)

	p := &Parser{
		format: f,
		year:   cfg.Year,
		sep:    cfg.Join.Separator(),
		dateRe: dateRegexp(f.Months),
		reference: Chain{
			CompactContains(f.ReferenceMarker),
		},
		affirmation: Chain{
			Prefix(f.AffirmationMarker),
			CompactPrefix(f.AffirmationMarker),
		},
	}
	if len(f.ReferenceKeywords) > 0 {
		p.reference = append(p.reference, AllKeywords(f.ReferenceKeywords...))
	}
	return p, nil
}

// Format returns the normalized marker table in use.
func (p *Parser) Format() types.Format {
	return p.format
}

// Parse segments lines and extracts an entry from every block. Blocks that
// fail extraction are skipped with a warning; the rest are returned in
// source order.
func (p *Parser) Parse(lines []string) Result {
	blocks, labels := p.segment(lines)

	res := Result{
		Entries: make([]types.Entry, 0, len(blocks)),
		Labels:  labels,
		Blocks:  len(blocks),
	}

	for i, b := range blocks {
		entry, diags, err := p.Extract(b)
		for _, d := range diags {
			d.Block = i
			res.Diagnostics = append(res.Diagnostics, d)
		}
		if err != nil {
			res.Skipped++
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Block:    i,
				Label:    b.Label,
				Field:    fieldOf(err),
				Message:  err.Error() + ", entry skipped",
			})
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	return res
}

func fieldOf(err error) string {
	if errors.Is(err, ErrUnparseableDate) || errors.Is(err, ErrInvalidDate) {
		return "date"
	}
	return "block"
}
