// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/jftlv/pkg/types"
)

// Extract builds an entry from one block. It returns an error wrapping
// ErrUnparseableDate, ErrInvalidDate or ErrShortBlock when the block cannot
// become an entry. Missing quote, reference or affirmation are not errors:
// the field is left empty and an info diagnostic is returned.
//
// Field positions never move backwards: the quote is searched after the
// title, the reference after the quote, and the affirmation after the
// reference.
func (p *Parser) Extract(b Block) (types.Entry, []Diagnostic, error) {
	label := strings.TrimSpace(b.Label)

	date, err := p.resolveDate(norm.NFC.String(label))
	if err != nil {
		return types.Entry{}, nil, err
	}

	lines := cleanLines(b.Lines)
	minLines := max(p.format.MinLines, 1)
	if len(lines) < minLines {
		return types.Entry{}, nil, fmt.Errorf("%w: %d content line(s), need at least %d", ErrShortBlock, len(lines), minLines)
	}

	var diags []Diagnostic
	note := func(field, strategy, msg string) {
		diags = append(diags, Diagnostic{
			Severity: SeverityInfo,
			Label:    label,
			Field:    field,
			Strategy: strategy,
			Message:  msg,
		})
	}

	entry := types.Entry{
		Date:      date,
		DateLabel: label,
		Title:     lines[0],
	}

	next := 1
	q := p.findQuote(lines)
	switch {
	case !q.found:
		note("quote", "", "no opening quotation mark")
	case !q.closed:
		note("quote", "", "no closing quotation mark, kept opening line only")
	}
	if q.found {
		entry.Quote = strings.Join(lines[q.start:q.end+1], " ")
		next = q.end + 1
	}

	bodyStart := next
	if i, strategy, ok := p.reference.Find(lines, next); ok {
		entry.Reference = lines[i]
		bodyStart = i + 1
		if !p.reference.Primary(strategy) {
			note("reference", strategy, "reference marker found by fallback match")
		}
	} else {
		note("reference", "", "no reference marker")
	}

	bodyEnd := len(lines)
	if i, strategy, ok := p.affirmation.Find(lines, bodyStart); ok {
		entry.Affirmation = strings.Join(lines[i:], p.sep)
		bodyEnd = i
		if !p.affirmation.Primary(strategy) {
			note("affirmation", strategy, "affirmation marker found by fallback match")
		}
	} else {
		note("affirmation", "", "no affirmation marker")
	}

	entry.Body = strings.Join(lines[bodyStart:bodyEnd], p.sep)
	return entry, diags, nil
}

// resolveDate converts a date label into YYYY-MM-DD using the processing
// year.
func (p *Parser) resolveDate(label string) (string, error) {
	m := p.dateRe.FindStringSubmatch(label)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableDate, label)
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnparseableDate, label, err)
	}
	month, ok := p.month(m[2])
	if !ok {
		return "", fmt.Errorf("%w: %q: unknown month %q", ErrUnparseableDate, label, m[2])
	}

	t := time.Date(p.year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return "", fmt.Errorf("%w: %q has no day %d in %d", ErrInvalidDate, label, day, p.year)
	}
	return t.Format(types.DateLayout), nil
}

// month looks a month name up in the format table, ignoring case.
func (p *Parser) month(name string) (time.Month, bool) {
	for i, m := range p.format.Months {
		if strings.EqualFold(m, name) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// quoteSpan locates the quote within a block's lines (both ends inclusive).
type quoteSpan struct {
	start, end int
	found      bool
	closed     bool
}

// findQuote looks for the first line after the title that opens a quote and
// follows it to the first line holding a closing mark anywhere in the line.
// An unclosed quote collapses to its opening line.
func (p *Parser) findQuote(lines []string) quoteSpan {
	for i := 1; i < len(lines); i++ {
		rest, ok := p.cutOpening(lines[i])
		if !ok {
			continue
		}
		if p.hasClosing(rest) {
			return quoteSpan{start: i, end: i, found: true, closed: true}
		}
		for j := i + 1; j < len(lines); j++ {
			if p.hasClosing(lines[j]) {
				return quoteSpan{start: i, end: j, found: true, closed: true}
			}
		}
		return quoteSpan{start: i, end: i, found: true}
	}
	return quoteSpan{}
}

// cutOpening returns line without its leading opening quotation mark.
func (p *Parser) cutOpening(line string) (string, bool) {
	for _, mark := range p.format.QuoteOpen {
		if rest, ok := strings.CutPrefix(line, mark); ok {
			return rest, true
		}
	}
	return "", false
}

func (p *Parser) hasClosing(s string) bool {
	for _, mark := range p.format.QuoteClose {
		if strings.Contains(s, mark) {
			return true
		}
	}
	return false
}

// cleanLines trims and normalizes lines and drops blank ones. Segment
// already does this; Extract repeats it for blocks built by hand.
func cleanLines(in []string) []string {
	out := make([]string, 0, len(in))
	for _, l := range in {
		if l = strings.TrimSpace(norm.NFC.String(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}
